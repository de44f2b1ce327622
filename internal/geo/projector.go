// Package geo geolocates decoded scanline imagery: it propagates the
// satellite per scanline, builds a per-line viewing geometry, and exposes an
// inverse mapping from image pixel to latitude/longitude for external
// resamplers.
package geo

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/skyward-data/groundtrack/internal/geo/nsper"
)

// ErrOutOfRange reports an inverse query outside the decoded image. Callers
// resampling a full target raster must expect and skip it.
var ErrOutOfRange = errors.New("geo: pixel outside decoded image")

// headingBaseline is the half-width in seconds of the finite-difference
// baseline used to estimate the scan azimuth from the satellite's motion.
// The full 400 ms baseline approximates the instantaneous heading with a
// local secant, which is short enough relative to orbital curvature. Tuned,
// not derived.
const headingBaseline = 0.2

// Raster size used only while measuring the motion vector's direction.
const headingRasterSize = 200

const rad2deg = 180.0 / math.Pi

// Settings calibrates a ScanProjector for one instrument and pass.
type Settings struct {
	// PixelOffset shifts the projected coordinate along the scan, in
	// (possibly corrected) pixels.
	PixelOffset float64

	// CorrectionSwathKm, CorrectionResKm and CorrectionHeightKm drive the
	// curvature table: the modeled swath width, the corrected ground
	// sampling resolution, and the sensor-to-surface correction height.
	CorrectionSwathKm  float64
	CorrectionResKm    float64
	CorrectionHeightKm float64

	// InstrumentSwathKm is the sensor's true ground swath, used to rescale
	// the projection against the instantaneous footprint.
	InstrumentSwathKm float64

	// Scale is the projection-domain scale factor.
	Scale float64

	// AzimuthOffsetDeg compensates a scan-direction-dependent mounting
	// bias; its sign is selected by the motion direction per line.
	AzimuthOffsetDeg float64

	// TiltOffsetDeg tilts the per-line projection along track.
	TiltOffsetDeg float64

	// TimeOffsetSec biases every scanline timestamp before propagation.
	TimeOffsetSec float64

	// ImageWidth is the native scanline width in samples.
	ImageWidth int

	// InvertScan mirrors the pixel coordinate for instruments scanning in
	// reverse.
	InvertScan bool
}

// orbitalFrame is one scanline's viewing geometry: the satellite state at
// the line's instant, the local perspective projection aligned with the
// ground track, and the footprint diameter used for swath rescaling.
type orbitalFrame struct {
	pos         SubPoint
	proj        nsper.Projection
	footprintKm float64
	azimuthDeg  float64
}

// ScanProjector owns the curvature table and the per-line orbital frames
// for one decoded pass. It is built once, after all scanlines are known,
// and is immutable afterwards: concurrent Inverse calls are safe.
type ScanProjector struct {
	settings Settings
	curve    curvatureTable
	frames   []orbitalFrame
}

// NewScanProjector builds the projector for a pass: the curvature table
// once, then one orbital frame per scanline timestamp. Any ephemeris
// failure aborts construction; no partially valid projector is returned.
func NewScanProjector(settings Settings, eph Ephemeris, timestamps []float64) (*ScanProjector, error) {
	if settings.ImageWidth <= 0 {
		return nil, fmt.Errorf("geo: non-positive image width %d", settings.ImageWidth)
	}
	if settings.CorrectionSwathKm <= 0 || settings.CorrectionResKm <= 0 {
		return nil, fmt.Errorf("geo: invalid curvature geometry (swath %.3f km, resolution %.3f km)",
			settings.CorrectionSwathKm, settings.CorrectionResKm)
	}
	if eph == nil {
		return nil, errors.New("geo: nil ephemeris")
	}

	sp := &ScanProjector{
		settings: settings,
		curve: buildCurvatureTable(settings.CorrectionSwathKm, settings.CorrectionResKm,
			settings.CorrectionHeightKm, settings.ImageWidth),
		frames: make([]orbitalFrame, 0, len(timestamps)),
	}
	log.Printf("[ScanProjector] curvature table ready: %d corrected samples for %d native",
		sp.curve.correctedWidth, settings.ImageWidth)

	for i, ts := range timestamps {
		frame, err := sp.buildFrame(eph, ts+settings.TimeOffsetSec)
		if err != nil {
			return nil, fmt.Errorf("geo: frame %d: %w", i, err)
		}
		sp.frames = append(sp.frames, frame)
	}
	log.Printf("[ScanProjector] %d orbital frames generated", len(sp.frames))
	return sp, nil
}

// buildFrame propagates the satellite to one scanline instant and derives
// the line's viewing geometry.
func (sp *ScanProjector) buildFrame(eph Ephemeris, ts float64) (orbitalFrame, error) {
	pos, err := eph.Position(JulianDate(ts))
	if err != nil {
		return orbitalFrame{}, err
	}

	az, err := scanAzimuth(eph, ts, pos)
	if err != nil {
		return orbitalFrame{}, err
	}

	// The raw azimuth's sign encodes the motion direction, which selects
	// how the mounting bias applies. Subtracting 90° aligns the
	// projection's reference axis with the ground track.
	invertOffset := az > 0
	az -= 90
	if invertOffset {
		az -= sp.settings.AzimuthOffsetDeg
	} else {
		az += sp.settings.AzimuthOffsetDeg
	}

	frame := orbitalFrame{pos: pos, footprintKm: pos.FootprintKm, azimuthDeg: az}
	frame.proj.Init(pos.AltKm*1000, pos.LonDeg, pos.LatDeg, sp.settings.TiltOffsetDeg, az)
	return frame, nil
}

// scanAzimuth estimates the heading of the satellite's ground motion at ts:
// two auxiliary positions a short baseline apart are projected onto a small
// local raster centered at the current sub-satellite point, and the
// displacement between them is converted to an angle.
func scanAzimuth(eph Ephemeris, ts float64, at SubPoint) (float64, error) {
	var view nsper.Projection
	view.Init(at.AltKm*1000, at.LonDeg, at.LatDeg, 0, 0)

	before, err := eph.Position(JulianDate(ts - headingBaseline))
	if err != nil {
		return 0, err
	}
	after, err := eph.Position(JulianDate(ts + headingBaseline))
	if err != nil {
		return 0, err
	}

	p1 := rasterize(&view, before)
	p2 := rasterize(&view, after)
	d := r2.Sub(p1, p2)
	return math.Atan(d.Y/d.X) * rad2deg, nil
}

// rasterize projects a sub-satellite point onto the heading raster. Points
// the projection rejects land at (-1, -1), matching the degenerate vector
// the azimuth estimate tolerates.
func rasterize(view *nsper.Projection, p SubPoint) r2.Vec {
	x, y, err := view.Forward(p.LonDeg, p.LatDeg)
	if err != nil || math.Abs(x) > 1e10 || math.Abs(y) > 1e10 {
		return r2.Vec{X: -1, Y: -1}
	}

	const hscale, vscale = 4.0, 4.0
	half := float64(headingRasterSize) / 2
	col := x*hscale*half + half
	row := y*vscale*half + half
	return r2.Vec{X: col, Y: float64(headingRasterSize-1) - row}
}

// Lines returns the number of scanlines the projector covers.
func (sp *ScanProjector) Lines() int {
	return len(sp.frames)
}

// CorrectedWidth returns the width of the curvature-corrected output grid.
func (sp *ScanProjector) CorrectedWidth() int {
	return sp.curve.correctedWidth
}

// LineAzimuth returns the corrected projection azimuth in degrees used for
// scanline y. Useful for alignment diagnostics.
func (sp *ScanProjector) LineAzimuth(y int) float64 {
	return sp.frames[y].azimuthDeg
}

// LinePosition returns the satellite state used for scanline y.
func (sp *ScanProjector) LinePosition(y int) SubPoint {
	return sp.frames[y].pos
}

// Forward returns the fractional native pixel sampled by corrected pixel i.
func (sp *ScanProjector) Forward(i int) float64 {
	return sp.curve.forward[i]
}

// Inverse maps an image pixel to latitude/longitude in degrees. With
// correctCurvature set, x is remapped through the curvature inverse table
// and the corrected width becomes the scan domain. ErrOutOfRange is
// returned for pixels outside the decoded image or without a valid
// curvature mapping; projection failures from degenerate geometry pass
// through verbatim.
func (sp *ScanProjector) Inverse(x, y int, correctCurvature bool) (lat, lon float64, err error) {
	if y < 0 || y >= len(sp.frames) || x < 0 || x >= sp.settings.ImageWidth {
		return 0, 0, ErrOutOfRange
	}
	frame := &sp.frames[y]

	px := float64(x)
	width := float64(sp.settings.ImageWidth)
	if correctCurvature {
		cx := sp.curve.inverse[x]
		if cx < 0 {
			return 0, 0, ErrOutOfRange
		}
		px = float64(cx)
		width = float64(sp.curve.correctedWidth)
	}

	if sp.settings.InvertScan {
		px = (width - 1) - px
	}
	px -= width / 2
	px += sp.settings.PixelOffset
	pjx := px / (sp.settings.Scale * (width / 2))

	// The projection is not metrically accurate, so the coordinate is
	// calibrated against the sensor's known swath at the current altitude.
	pjx *= sp.settings.InstrumentSwathKm / frame.footprintKm

	lon, lat, err = frame.proj.Inverse(pjx, 0)
	return lat, lon, err
}
