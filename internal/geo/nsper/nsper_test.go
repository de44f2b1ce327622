package nsper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyward-data/groundtrack/internal/geo/nsper"
)

func TestForwardCenter(t *testing.T) {
	t.Parallel()

	var pj nsper.Projection
	pj.Init(830e3, 25.0, 60.0, 0, 0)

	x, y, err := pj.Forward(25.0, 60.0)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
}

func TestInverseCenter(t *testing.T) {
	t.Parallel()

	var pj nsper.Projection
	pj.Init(830e3, -70.0, -45.0, 0, 0)

	lon, lat, err := pj.Inverse(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, -70.0, lon, 1e-9)
	assert.InDelta(t, -45.0, lat, 1e-9)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		tilt, azimuth  float64
		lonOff, latOff float64
	}{
		{"untilted north", 0, 0, 0, 2},
		{"untilted east", 0, 0, 3, 0},
		{"rotated", 0, 57.0, 1.5, -1},
		{"tilted and rotated", 5.0, -120.0, -2, 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var pj nsper.Projection
			pj.Init(830e3, 10.0, 50.0, tc.tilt, tc.azimuth)

			lon0, lat0 := 10.0+tc.lonOff, 50.0+tc.latOff
			x, y, err := pj.Forward(lon0, lat0)
			require.NoError(t, err)

			lon, lat, err := pj.Inverse(x, y)
			require.NoError(t, err)
			assert.InDelta(t, lon0, lon, 1e-6)
			assert.InDelta(t, lat0, lat, 1e-6)
		})
	}
}

func TestRotationOrientsPlane(t *testing.T) {
	t.Parallel()

	// With a 90° azimuth the view plane rotates so that a point north of
	// the center lands on the x axis instead of the y axis.
	var plain, rotated nsper.Projection
	plain.Init(830e3, 0, 0, 0, 0)
	rotated.Init(830e3, 0, 0, 0, 90)

	_, yPlain, err := plain.Forward(0, 2)
	require.NoError(t, err)
	xRot, yRot, err := rotated.Forward(0, 2)
	require.NoError(t, err)

	assert.Greater(t, yPlain, 0.0)
	assert.InDelta(t, 0, yRot, 1e-9)
	assert.InDelta(t, -yPlain, xRot, 1e-9)
}

func TestBehindHorizon(t *testing.T) {
	t.Parallel()

	var pj nsper.Projection
	pj.Init(830e3, 0, 0, 0, 0)

	t.Run("forward rejects the far side", func(t *testing.T) {
		t.Parallel()
		_, _, err := pj.Forward(180, 0)
		assert.ErrorIs(t, err, nsper.ErrBehindHorizon)
	})

	t.Run("inverse rejects points off the disc", func(t *testing.T) {
		t.Parallel()
		_, _, err := pj.Inverse(10, 10)
		assert.ErrorIs(t, err, nsper.ErrBehindHorizon)
	})
}
