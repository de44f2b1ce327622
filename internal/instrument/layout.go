// Package instrument reassembles demultiplexed telemetry packets into
// per-channel scanline imagery. The reassembly state machine is generic;
// everything specific to one instrument lives in a declarative Layout so the
// same machine serves every instrument family.
package instrument

import (
	"fmt"
	"sort"

	"github.com/skyward-data/groundtrack/internal/telemetry"
)

// Marker field position inside the first payload byte: a 3-bit value held in
// bits 6..4.
const (
	markerShift = 4
	markerMask  = 0b111
)

// Segment describes which part of a scanline a packet with a given marker
// fills: SampleCount samples per channel, written starting at LineOffset,
// decoded from the payload starting at PayloadOffset. Channels are
// interleaved contiguously, two bytes per sample.
type Segment struct {
	SampleCount   int
	LineOffset    int
	PayloadOffset int
}

// TimeLayout locates and scales the scanline timestamp carried by the
// line-start packet.
type TimeLayout struct {
	PayloadOffset int
	Epoch         telemetry.EpochParams

	// Correction is a fixed offset in seconds applied after decoding,
	// absorbing instrument-specific epoch quirks.
	Correction float64
}

// Layout is the immutable per-instrument reassembly description: buffer
// geometry, the minimum packet size contract, the marker that opens a new
// line, and the marker-to-segment table.
type Layout struct {
	Name           string
	Channels       int
	SamplesPerLine int
	MinPacketSize  int
	StartMarker    uint8
	Segments       map[uint8]Segment
	Time           TimeLayout
}

// Marker extracts the 3-bit segment marker from a packet payload. The
// payload must be non-empty.
func Marker(payload []byte) uint8 {
	return (payload[0] >> markerShift) & markerMask
}

// Validate checks the layout invariant: the segments' line ranges must tile
// [0, SamplesPerLine) exactly, with no gaps and no overlaps, and every
// segment must fit inside the minimum packet size.
func (l Layout) Validate() error {
	if l.Channels <= 0 || l.SamplesPerLine <= 0 {
		return fmt.Errorf("layout %s: non-positive geometry (%d channels, %d samples/line)",
			l.Name, l.Channels, l.SamplesPerLine)
	}
	if _, ok := l.Segments[l.StartMarker]; !ok {
		return fmt.Errorf("layout %s: start marker %d has no segment", l.Name, l.StartMarker)
	}

	segs := make([]Segment, 0, len(l.Segments))
	for m, s := range l.Segments {
		if s.SampleCount <= 0 {
			return fmt.Errorf("layout %s: marker %d has non-positive sample count", l.Name, m)
		}
		end := s.PayloadOffset + s.SampleCount*l.Channels*2
		if end > l.MinPacketSize {
			return fmt.Errorf("layout %s: marker %d reads %d bytes past the %d-byte minimum packet",
				l.Name, m, end-l.MinPacketSize, l.MinPacketSize)
		}
		segs = append(segs, s)
	}
	if end := l.Time.PayloadOffset + telemetry.EpochTimeField; end > l.MinPacketSize {
		return fmt.Errorf("layout %s: time field ends at %d, past the %d-byte minimum packet",
			l.Name, end, l.MinPacketSize)
	}

	sort.Slice(segs, func(i, j int) bool { return segs[i].LineOffset < segs[j].LineOffset })
	next := 0
	for _, s := range segs {
		if s.LineOffset != next {
			return fmt.Errorf("layout %s: segments leave a gap or overlap at sample %d", l.Name, next)
		}
		next = s.LineOffset + s.SampleCount
	}
	if next != l.SamplesPerLine {
		return fmt.Errorf("layout %s: segments cover %d of %d samples per line",
			l.Name, next, l.SamplesPerLine)
	}
	return nil
}
