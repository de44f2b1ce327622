package instrument

import (
	"github.com/skyward-data/groundtrack/internal/geo"
	"github.com/skyward-data/groundtrack/internal/telemetry"
)

// MWTS3 returns the reassembly layout for the FengYun-3E MWTS-3 microwave
// temperature sounder: 18 channels, 98 samples per line, four line segments
// keyed by markers 1..4. Marker 1 opens the line and carries its timestamp
// (2000-01-01 epoch day field at payload offset 2, 0.1 ms coarse ticks, plus
// a fixed 12 h correction).
func MWTS3() Layout {
	return Layout{
		Name:           "MWTS-3",
		Channels:       18,
		SamplesPerLine: 98,
		MinPacketSize:  1018,
		StartMarker:    1,
		Segments: map[uint8]Segment{
			1: {SampleCount: 14, LineOffset: 0, PayloadOffset: 224 + 144*2},
			2: {SampleCount: 28, LineOffset: 14, PayloadOffset: 8},
			3: {SampleCount: 28, LineOffset: 42, PayloadOffset: 8},
			4: {SampleCount: 28, LineOffset: 70, PayloadOffset: 8},
		},
		Time: TimeLayout{
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

// MWTS3Projection returns the geolocation calibration for MWTS-3 imagery.
// Timestamps and the ephemeris capability are per-pass and must be filled in
// by the caller before constructing a projector.
func MWTS3Projection() geo.Settings {
	return geo.Settings{
		PixelOffset:        60,
		CorrectionSwathKm:  1400,
		CorrectionResKm:    17.4 / 20,
		CorrectionHeightKm: 827,
		InstrumentSwathKm:  2200,
		Scale:              2.42,
		AzimuthOffsetDeg:   0,
		TiltOffsetDeg:      0,
		TimeOffsetSec:      0,
		ImageWidth:         98,
		InvertScan:         true,
	}
}
