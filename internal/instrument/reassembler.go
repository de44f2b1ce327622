package instrument

import (
	"github.com/skyward-data/groundtrack/internal/telemetry"
)

// Reassembler consumes telemetry packets one at a time and assembles them
// into per-channel scanline buffers. It owns the buffers exclusively while
// decoding; once decoding finishes, ChannelImage hands the data to the
// caller as read-only imagery.
//
// Malformed input never surfaces as an error: undersized packets and
// unknown markers are dropped without any state change.
type Reassembler struct {
	layout     Layout
	channels   [][]uint16
	timestamps []float64
	lines      int
}

// NewReassembler builds a reassembler for the given instrument layout. The
// layout must have passed Validate; geometry errors here are programming
// errors, not runtime conditions.
func NewReassembler(layout Layout) *Reassembler {
	channels := make([][]uint16, layout.Channels)
	for c := range channels {
		channels[c] = make([]uint16, 0, layout.SamplesPerLine)
	}
	return &Reassembler{
		layout:   layout,
		channels: channels,
	}
}

// Ingest processes one packet. A packet carrying the start marker decodes
// the line timestamp and opens a new line; every known marker writes its
// segment's samples into the open line. Continuation segments that arrive
// before any line has been opened are dropped.
func (r *Reassembler) Ingest(pkt telemetry.Packet) {
	if len(pkt.Payload) < r.layout.MinPacketSize {
		return
	}

	marker := Marker(pkt.Payload)
	seg, ok := r.layout.Segments[marker]
	if !ok {
		return
	}

	if marker == r.layout.StartMarker {
		tl := r.layout.Time
		field := pkt.Payload[tl.PayloadOffset : tl.PayloadOffset+telemetry.EpochTimeField]
		r.timestamps = append(r.timestamps, telemetry.EpochTime(field, tl.Epoch)+tl.Correction)
		r.lines++
		r.grow()
	}
	if r.lines == 0 {
		return
	}

	base := (r.lines-1)*r.layout.SamplesPerLine + seg.LineOffset
	for i := 0; i < seg.SampleCount; i++ {
		for c := 0; c < r.layout.Channels; c++ {
			off := seg.PayloadOffset + (r.layout.Channels*i+c)*2
			r.channels[c][base+i] = telemetry.Sample(pkt.Payload, off)
		}
	}
}

// grow extends every channel buffer to cover the open line, zero-filling new
// space. append keeps the growth amortized over long passes.
func (r *Reassembler) grow() {
	need := r.lines * r.layout.SamplesPerLine
	for c := range r.channels {
		if n := need - len(r.channels[c]); n > 0 {
			r.channels[c] = append(r.channels[c], make([]uint16, n)...)
		}
	}
}

// Lines returns the number of scanlines opened so far. A stream that ended
// mid-line still counts its final, partially filled line; the unfilled
// samples stay zero.
func (r *Reassembler) Lines() int {
	return r.lines
}

// Timestamps returns the UTC scanline timestamps, in seconds since the Unix
// epoch. Its length always equals Lines().
func (r *Reassembler) Timestamps() []float64 {
	return r.timestamps
}

// ChannelImage returns channel c's buffer reshaped as an image of
// width SamplesPerLine and height Lines(). The last row is zero-padded when
// the stream ended mid-line.
func (r *Reassembler) ChannelImage(c int) Image {
	return Image{
		Pix:    r.channels[c][:r.lines*r.layout.SamplesPerLine],
		Width:  r.layout.SamplesPerLine,
		Height: r.lines,
	}
}
