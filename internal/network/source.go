// Package network acquires demultiplexed telemetry packets and hands them to
// a caller-supplied handler. Sources deal only in whole space packets; raw
// downlink frame synchronization and virtual-channel demultiplexing happen
// upstream.
package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/skyward-data/groundtrack/internal/telemetry"
)

// Handler receives one packet at a time, in arrival order. The payload is
// owned by the handler once delivered.
type Handler func(telemetry.Packet)

// Space packet primary header layout.
const (
	primaryHeaderSize = 6
	apidMask          = 0x07FF
)

// parseHeader splits a 6-byte space packet primary header into the APID and
// the payload length (the on-wire length field is payload bytes minus one).
func parseHeader(h []byte) (apid, length int) {
	apid = int(binary.BigEndian.Uint16(h[0:2]) & apidMask)
	length = int(binary.BigEndian.Uint16(h[4:6])) + 1
	return apid, length
}

// ReadStream consumes a contiguous stream of space packets from r and
// delivers each to handler. It returns nil at a clean end of stream and an
// error when the stream ends inside a packet.
func ReadStream(r io.Reader, handler Handler) error {
	header := make([]byte, primaryHeaderSize)
	count := 0
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) {
				log.Printf("[PacketStream] end of stream, %d packets delivered", count)
				return nil
			}
			return fmt.Errorf("network: truncated packet header after %d packets: %w", count, err)
		}

		apid, length := parseHeader(header)
		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return fmt.Errorf("network: truncated packet payload (apid %d) after %d packets: %w", apid, count, err)
		}

		handler(telemetry.Packet{APID: apid, Payload: payload})
		count++
	}
}

// ParseDatagram interprets one datagram as a single space packet. Datagrams
// too short for the primary header, or shorter than the header's declared
// length, are rejected.
func ParseDatagram(data []byte) (telemetry.Packet, error) {
	if len(data) < primaryHeaderSize {
		return telemetry.Packet{}, fmt.Errorf("network: datagram of %d bytes is shorter than a packet header", len(data))
	}
	apid, length := parseHeader(data)
	if len(data) < primaryHeaderSize+length {
		return telemetry.Packet{}, fmt.Errorf("network: datagram carries %d of %d declared payload bytes",
			len(data)-primaryHeaderSize, length)
	}
	payload := make([]byte, length)
	copy(payload, data[primaryHeaderSize:primaryHeaderSize+length])
	return telemetry.Packet{APID: apid, Payload: payload}, nil
}
