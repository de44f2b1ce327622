// Package nsper implements a spherical near-sided (tilted) perspective
// projection: the view of the Earth from a camera at a finite height above a
// reference point, optionally tilted and rotated. It serves as the local
// tangent-plane projection used per scanline by the geolocation projector.
//
// Forward maps geodetic coordinates to dimensionless plane coordinates on
// the unit sphere; Inverse maps back. Both use degrees at the API boundary.
package nsper

import (
	"errors"
	"math"
)

// EarthRadiusM is the spherical Earth radius used to normalize the camera
// height.
const EarthRadiusM = 6371000.0

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	eps10   = 1e-10
)

// ErrBehindHorizon reports a point outside the camera's visible disc, or a
// plane coordinate with no pre-image on the near side of the sphere.
var ErrBehindHorizon = errors.New("nsper: point behind the horizon")

// Projection is a configured perspective view. The zero value is unusable;
// call Init first. A Projection is immutable after Init and safe for
// concurrent reads.
type Projection struct {
	lonOrigin float64
	phi0      float64
	sinph0    float64
	cosph0    float64

	// Camera geometry, normalized to the unit sphere.
	pn1   float64 // height / earth radius
	p     float64 // 1 + pn1
	rp    float64 // 1 / p
	h     float64 // 1 / pn1
	pfact float64 // (p + 1) * h

	tilted bool
	cg, sg float64 // cos/sin of the azimuth rotation
	cw, sw float64 // cos/sin of the tilt
}

// Init configures the projection for a camera heightM meters above the
// sub-point (lonDeg, latDeg), rotated by azimuthDeg and tilted by tiltDeg.
func (pj *Projection) Init(heightM, lonDeg, latDeg, tiltDeg, azimuthDeg float64) {
	pj.lonOrigin = lonDeg
	pj.phi0 = latDeg * deg2rad
	pj.sinph0 = math.Sin(pj.phi0)
	pj.cosph0 = math.Cos(pj.phi0)

	pj.pn1 = heightM / EarthRadiusM
	pj.p = 1 + pj.pn1
	pj.rp = 1 / pj.p
	pj.h = 1 / pj.pn1
	pj.pfact = (pj.p + 1) * pj.h

	pj.tilted = tiltDeg != 0 || azimuthDeg != 0
	gamma := azimuthDeg * deg2rad
	omega := tiltDeg * deg2rad
	pj.cg = math.Cos(gamma)
	pj.sg = math.Sin(gamma)
	pj.cw = math.Cos(omega)
	pj.sw = math.Sin(omega)
}

// Forward projects (lonDeg, latDeg) onto the view plane. It fails with
// ErrBehindHorizon when the point is not visible from the camera.
func (pj *Projection) Forward(lonDeg, latDeg float64) (x, y float64, err error) {
	phi := latDeg * deg2rad
	lam := wrapRad((lonDeg - pj.lonOrigin) * deg2rad)

	sinphi := math.Sin(phi)
	cosphi := math.Cos(phi)
	coslam := math.Cos(lam)

	cosc := pj.sinph0*sinphi + pj.cosph0*cosphi*coslam
	if cosc < pj.rp {
		return 0, 0, ErrBehindHorizon
	}

	y = pj.pn1 / (pj.p - cosc)
	x = y * cosphi * math.Sin(lam)
	y *= pj.cosph0*sinphi - pj.sinph0*cosphi*coslam

	if pj.tilted {
		yt := y*pj.cg + x*pj.sg
		ba := 1 / (yt*pj.sw*pj.h + pj.cw)
		x = (x*pj.cg - y*pj.sg) * pj.cw * ba
		y = yt * ba
	}
	return x, y, nil
}

// Inverse maps a view-plane coordinate back to (lonDeg, latDeg). It fails
// with ErrBehindHorizon for plane coordinates outside the projected disc.
func (pj *Projection) Inverse(x, y float64) (lonDeg, latDeg float64, err error) {
	if pj.tilted {
		yt := 1 / (pj.pn1 - y*pj.sw)
		bm := pj.pn1 * x * yt
		bq := pj.pn1 * y * pj.cw * yt
		x = bm*pj.cg + bq*pj.sg
		y = bq*pj.cg - bm*pj.sg
	}

	rh := math.Hypot(x, y)
	if rh <= eps10 {
		return pj.lonOrigin, pj.phi0 * rad2deg, nil
	}

	sinz := 1 - rh*rh*pj.pfact
	if sinz < 0 {
		return 0, 0, ErrBehindHorizon
	}
	sinz = (pj.p - math.Sqrt(sinz)) / (pj.pn1/rh + rh/pj.pn1)
	cosz := math.Sqrt(1 - sinz*sinz)

	phi := math.Asin(cosz*pj.sinph0 + y*sinz*pj.cosph0/rh)
	yy := (cosz - pj.sinph0*math.Sin(phi)) * rh
	xx := x * sinz * pj.cosph0
	lam := math.Atan2(xx, yy)

	return wrapDeg(lam*rad2deg + pj.lonOrigin), phi * rad2deg, nil
}

// wrapDeg normalizes a longitude to (-180, 180].
func wrapDeg(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a <= -180 {
		a += 360
	}
	return a
}

// wrapRad normalizes an angle to (-π, π].
func wrapRad(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
