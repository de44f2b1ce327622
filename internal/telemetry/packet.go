// Package telemetry defines the packet and sample primitives shared by the
// instrument readers. Packets arrive already synchronized and demultiplexed
// from raw downlink frames; this package does not touch frame sync.
package telemetry

import "encoding/binary"

// Packet is one demultiplexed telemetry packet. The APID identifies the
// payload stream it belongs to. Readers never retain a Packet past one
// ingest step, so callers may reuse the payload buffer between packets.
type Packet struct {
	APID    int
	Payload []byte
}

// Sample decodes one big-endian unsigned 16-bit sample at the given byte
// offset. There is no bounds checking beyond the slice's own: an
// out-of-range offset is a programming error, not a recoverable condition.
// Callers must validate payload length before requesting samples.
func Sample(payload []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(payload[offset : offset+2])
}
