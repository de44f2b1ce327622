// Package ephem adapts an SGP4 propagation library to the ephemeris
// capability the geolocation projector consumes.
package ephem

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/skyward-data/groundtrack/internal/geo"
)

// equatorialRadiusKm and footprint diameter constant follow the classic
// predict tracking code, which the footprint calibration downstream was
// tuned against.
const (
	equatorialRadiusKm  = 6378.137
	footprintDiameterKm = 12756.33
)

const tleLineLen = 69

// SGP4 propagates a satellite from a parsed two-line element set. It
// interpolates between whole-second propagations because the underlying
// library only accepts calendar seconds; over one second a low-Earth orbit
// is linear well below the sensor's resolution.
//
// SGP4 memoizes per-second states and is not safe for concurrent use.
type SGP4 struct {
	sat   satellite.Satellite
	cache map[int64]geo.SubPoint
}

// NewSGP4 parses a two-line element set and initializes the propagation
// model. Unparsable elements are a fatal configuration error.
func NewSGP4(line1, line2 string) (eph *SGP4, err error) {
	line1 = strings.TrimRight(line1, "\r\n")
	line2 = strings.TrimRight(line2, "\r\n")
	if len(line1) < tleLineLen || !strings.HasPrefix(line1, "1 ") {
		return nil, fmt.Errorf("ephem: malformed TLE line 1: %q", line1)
	}
	if len(line2) < tleLineLen || !strings.HasPrefix(line2, "2 ") {
		return nil, fmt.Errorf("ephem: malformed TLE line 2: %q", line2)
	}

	// The TLE parser panics on malformed numeric fields; surface that as
	// the configuration error it is.
	defer func() {
		if r := recover(); r != nil {
			eph = nil
			err = fmt.Errorf("ephem: parsing TLE: %v", r)
		}
	}()

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	return &SGP4{sat: sat, cache: make(map[int64]geo.SubPoint)}, nil
}

// Position implements geo.Ephemeris.
func (s *SGP4) Position(jd float64) (geo.SubPoint, error) {
	unix := (jd - 2440587.5) * 86400.0
	sec := math.Floor(unix)
	frac := unix - sec

	p0, err := s.at(int64(sec))
	if err != nil {
		return geo.SubPoint{}, err
	}
	if frac == 0 {
		return p0, nil
	}
	p1, err := s.at(int64(sec) + 1)
	if err != nil {
		return geo.SubPoint{}, err
	}

	dlon := p1.LonDeg - p0.LonDeg
	if dlon > 180 {
		dlon -= 360
	} else if dlon < -180 {
		dlon += 360
	}

	p := geo.SubPoint{
		LatDeg: p0.LatDeg + frac*(p1.LatDeg-p0.LatDeg),
		LonDeg: wrapLon(p0.LonDeg + frac*dlon),
		AltKm:  p0.AltKm + frac*(p1.AltKm-p0.AltKm),
	}
	p.FootprintKm = FootprintKm(p.AltKm)
	return p, nil
}

// at propagates to a whole UTC second, memoizing the result: projector
// construction revisits the same bracketing seconds for every scanline and
// its heading baseline.
func (s *SGP4) at(sec int64) (geo.SubPoint, error) {
	if p, ok := s.cache[sec]; ok {
		return p, nil
	}

	t := time.Unix(sec, 0).UTC()
	pos, _ := satellite.Propagate(s.sat, t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second())
	if bad(pos.X) || bad(pos.Y) || bad(pos.Z) {
		return geo.SubPoint{}, fmt.Errorf("ephem: propagation failed at %s", t.Format(time.RFC3339))
	}

	gmst := satellite.GSTimeFromDate(t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second())
	altKm, _, ll := satellite.ECIToLLA(pos, gmst)
	lld := satellite.LatLongDeg(ll)
	if bad(altKm) || altKm <= 0 {
		return geo.SubPoint{}, fmt.Errorf("ephem: degenerate altitude %.3f km at %s", altKm, t.Format(time.RFC3339))
	}

	p := geo.SubPoint{
		LatDeg:      lld.Latitude,
		LonDeg:      wrapLon(lld.Longitude),
		AltKm:       altKm,
		FootprintKm: FootprintKm(altKm),
	}
	s.cache[sec] = p
	return p, nil
}

// FootprintKm returns the diameter of the ground circle visible from the
// given altitude.
func FootprintKm(altKm float64) float64 {
	return footprintDiameterKm * math.Acos(equatorialRadiusKm/(equatorialRadiusKm+altKm))
}

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon <= -180 {
		lon += 360
	}
	return lon
}
