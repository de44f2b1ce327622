package instrument_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyward-data/groundtrack/internal/instrument"
	"github.com/skyward-data/groundtrack/internal/telemetry"
)

// testLayout is a small two-channel layout used across the reassembly tests:
// marker 1 opens the line with two samples, marker 2 completes it with two
// more.
func testLayout() instrument.Layout {
	return instrument.Layout{
		Name:           "test",
		Channels:       2,
		SamplesPerLine: 4,
		MinPacketSize:  24,
		StartMarker:    1,
		Segments: map[uint8]instrument.Segment{
			1: {SampleCount: 2, LineOffset: 0, PayloadOffset: 16},
			2: {SampleCount: 2, LineOffset: 2, PayloadOffset: 12},
		},
		Time: instrument.TimeLayout{
			PayloadOffset: 2,
			Epoch: telemetry.EpochParams{
				EpochDayOffset: 10957,
				CoarseScale:    10000,
				FineScale:      10000,
			},
			Correction: 12 * 3600,
		},
	}
}

func TestLayoutValidate(t *testing.T) {
	t.Parallel()

	t.Run("profiles are valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, testLayout().Validate())
		assert.NoError(t, instrument.MWTS3().Validate())
	})

	t.Run("gap between segments", func(t *testing.T) {
		t.Parallel()
		l := testLayout()
		l.Segments[2] = instrument.Segment{SampleCount: 1, LineOffset: 3, PayloadOffset: 12}
		assert.Error(t, l.Validate())
	})

	t.Run("overlapping segments", func(t *testing.T) {
		t.Parallel()
		l := testLayout()
		l.Segments[2] = instrument.Segment{SampleCount: 3, LineOffset: 1, PayloadOffset: 12}
		assert.Error(t, l.Validate())
	})

	t.Run("incomplete line coverage", func(t *testing.T) {
		t.Parallel()
		l := testLayout()
		l.SamplesPerLine = 6
		assert.Error(t, l.Validate())
	})

	t.Run("missing start marker segment", func(t *testing.T) {
		t.Parallel()
		l := testLayout()
		l.StartMarker = 7
		assert.Error(t, l.Validate())
	})

	t.Run("segment past minimum packet", func(t *testing.T) {
		t.Parallel()
		l := testLayout()
		l.MinPacketSize = 18
		assert.Error(t, l.Validate())
	})

	t.Run("time field past minimum packet", func(t *testing.T) {
		t.Parallel()
		l := testLayout()
		l.Time.PayloadOffset = 20
		assert.Error(t, l.Validate())
	})
}

func TestMWTS3Profile(t *testing.T) {
	t.Parallel()

	l := instrument.MWTS3()
	require.NoError(t, l.Validate())
	assert.Equal(t, 18, l.Channels)
	assert.Equal(t, 98, l.SamplesPerLine)
	assert.Equal(t, 1018, l.MinPacketSize)

	want := instrument.Segment{SampleCount: 14, LineOffset: 0, PayloadOffset: 512}
	if diff := cmp.Diff(want, l.Segments[1]); diff != "" {
		t.Errorf("start segment mismatch (-want +got):\n%s", diff)
	}
}

func TestMarker(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(1), instrument.Marker([]byte{0x10}))
	assert.Equal(t, uint8(4), instrument.Marker([]byte{0x40}))
	// Bits outside the 3-bit field are ignored.
	assert.Equal(t, uint8(3), instrument.Marker([]byte{0xBF}))
}
