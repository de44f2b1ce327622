package telemetry

import "encoding/binary"

// EpochTimeField is the size in bytes of a day-segmented telemetry time
// field: a 16-bit day counter, a 32-bit coarse sub-day counter and a 16-bit
// fine counter, all big-endian.
const EpochTimeField = 8

// SecondsPerDay converts whole epoch days to seconds.
const SecondsPerDay = 86400.0

// EpochParams describes how a day-segmented time field maps onto UTC.
// EpochDayOffset is the number of days between the spacecraft epoch and the
// Unix epoch (10957 for a 2000-01-01 epoch). CoarseScale divides the coarse
// counter into seconds; FineScale further divides the fine counter below the
// coarse resolution.
type EpochParams struct {
	EpochDayOffset int
	CoarseScale    float64
	FineScale      float64
}

// EpochTime decodes an 8-byte day-segmented time field into a floating-point
// UTC timestamp in seconds since the Unix epoch. The field must be at least
// EpochTimeField bytes long.
func EpochTime(field []byte, p EpochParams) float64 {
	days := binary.BigEndian.Uint16(field[0:2])
	coarse := binary.BigEndian.Uint32(field[2:6])
	fine := binary.BigEndian.Uint16(field[6:8])

	t := float64(int(days)+p.EpochDayOffset) * SecondsPerDay
	t += float64(coarse) / p.CoarseScale
	t += float64(fine) / (p.CoarseScale * p.FineScale)
	return t
}
