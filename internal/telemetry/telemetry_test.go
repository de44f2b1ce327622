package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyward-data/groundtrack/internal/telemetry"
)

func TestSample(t *testing.T) {
	t.Parallel()

	payload := []byte{0x12, 0x34, 0xAB, 0xCD, 0x00, 0xFF}

	assert.Equal(t, uint16(0x1234), telemetry.Sample(payload, 0))
	assert.Equal(t, uint16(0x34AB), telemetry.Sample(payload, 1))
	assert.Equal(t, uint16(0x00FF), telemetry.Sample(payload, 4))
}

func TestEpochTime(t *testing.T) {
	t.Parallel()

	params := telemetry.EpochParams{
		EpochDayOffset: 10957,
		CoarseScale:    10000,
		FineScale:      10000,
	}

	t.Run("epoch origin", func(t *testing.T) {
		t.Parallel()
		field := make([]byte, telemetry.EpochTimeField)
		got := telemetry.EpochTime(field, params)
		assert.InDelta(t, 10957*86400.0, got, 1e-6)
	})

	t.Run("day and sub-day counters", func(t *testing.T) {
		t.Parallel()
		// Day 100, coarse 123456 (12.3456 s in 0.1 ms ticks), fine 5000.
		field := []byte{0x00, 0x64, 0x00, 0x01, 0xE2, 0x40, 0x13, 0x88}
		want := float64(100+10957)*86400.0 + 123456.0/10000.0 + 5000.0/(10000.0*10000.0)
		got := telemetry.EpochTime(field, params)
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("scale factors applied", func(t *testing.T) {
		t.Parallel()
		field := []byte{0x00, 0x00, 0x00, 0x00, 0x03, 0xE8, 0x00, 0x00}
		p := telemetry.EpochParams{EpochDayOffset: 0, CoarseScale: 1000, FineScale: 1000}
		// 1000 coarse ticks at millisecond scale is exactly one second.
		assert.InDelta(t, 1.0, telemetry.EpochTime(field, p), 1e-12)
	})
}
