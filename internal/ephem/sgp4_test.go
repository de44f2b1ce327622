package ephem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyward-data/groundtrack/internal/ephem"
	"github.com/skyward-data/groundtrack/internal/geo"
)

// NOAA 19, epoch 2021-06-10. Any well-formed LEO element set works here;
// the tests only rely on plausibility, not on a reference trajectory.
const (
	tleLine1 = "1 33591U 09005A   21161.48778758  .00000061  00000-0  58481-4 0  9991"
	tleLine2 = "2 33591  99.1514 126.4287 0013820 180.5827 179.5317 14.12460382634584"
)

// 2021-06-10 12:00:00 UTC.
const testUnix = 1623326400.0

func TestNewSGP4RejectsMalformedTLE(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		line1, line2 string
	}{
		{"empty lines", "", ""},
		{"short line 1", "1 33591U", tleLine2},
		{"short line 2", tleLine1, "2 33591"},
		{"swapped prefixes", tleLine2, tleLine1},
		{"corrupt numeric field", "1 33591U 09005A   21161.4877875x  .00000061  00000-0  58481-4 0  9991", tleLine2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			eph, err := ephem.NewSGP4(tc.line1, tc.line2)
			assert.Error(t, err)
			assert.Nil(t, eph)
		})
	}
}

func TestPositionPlausible(t *testing.T) {
	t.Parallel()

	eph, err := ephem.NewSGP4(tleLine1, tleLine2)
	require.NoError(t, err)

	p, err := eph.Position(geo.JulianDate(testUnix))
	require.NoError(t, err)

	assert.InDelta(t, 0, p.LatDeg, 90)
	assert.InDelta(t, 0, p.LonDeg, 180)
	// NOAA 19 flies a roughly 870 km sun-synchronous orbit.
	assert.Greater(t, p.AltKm, 750.0)
	assert.Less(t, p.AltKm, 950.0)
	assert.Greater(t, p.FootprintKm, 5000.0)
	assert.Less(t, p.FootprintKm, 7500.0)
}

func TestPositionSubSecondContinuity(t *testing.T) {
	t.Parallel()

	eph, err := ephem.NewSGP4(tleLine1, tleLine2)
	require.NoError(t, err)

	p0, err := eph.Position(geo.JulianDate(testUnix))
	require.NoError(t, err)
	p1, err := eph.Position(geo.JulianDate(testUnix + 0.2))
	require.NoError(t, err)
	p2, err := eph.Position(geo.JulianDate(testUnix + 0.4))
	require.NoError(t, err)

	// A LEO bird covers well under a tenth of a degree of latitude in
	// 200 ms, and the motion must actually show up.
	assert.NotEqual(t, p0.LatDeg, p1.LatDeg)
	assert.InDelta(t, p0.LatDeg, p1.LatDeg, 0.1)
	assert.InDelta(t, p1.LatDeg, p2.LatDeg, 0.1)

	// Fractional steps inside one second interpolate monotonically.
	d1 := p1.LatDeg - p0.LatDeg
	d2 := p2.LatDeg - p1.LatDeg
	assert.Equal(t, d1 > 0, d2 > 0)
}

func TestFootprintGrowsWithAltitude(t *testing.T) {
	t.Parallel()

	low := ephem.FootprintKm(400)
	mid := ephem.FootprintKm(830)
	high := ephem.FootprintKm(1200)

	assert.Greater(t, mid, low)
	assert.Greater(t, high, mid)
	assert.InDelta(t, 6200, mid, 300)
}
