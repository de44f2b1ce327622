package geo

// SubPoint is a satellite's instantaneous geodetic state: the sub-satellite
// latitude/longitude in degrees, the altitude in kilometers, and the
// diameter in kilometers of the ground footprint visible from that altitude.
type SubPoint struct {
	LatDeg      float64
	LonDeg      float64
	AltKm       float64
	FootprintKm float64
}

// Ephemeris propagates a satellite to an arbitrary instant. Implementations
// wrap an orbital propagation model built from parsed orbital elements; the
// projector only consumes this interface.
//
// Position takes a Julian date and must be safe for repeated calls at
// arbitrary, non-monotonic instants. A failure here is fatal to projector
// construction, so implementations should return errors rather than
// degenerate states.
type Ephemeris interface {
	Position(jd float64) (SubPoint, error)
}

// JulianDate converts a UTC timestamp in seconds since the Unix epoch to a
// Julian date.
func JulianDate(unixSec float64) float64 {
	return unixSec/86400.0 + 2440587.5
}
