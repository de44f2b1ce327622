package geo

import "math"

// EarthRadiusKm is the spherical Earth radius shared by the curvature model
// and the footprint geometry.
const EarthRadiusKm = 6371.0

// curvatureTable corrects the foreshortening of a wide-swath scanner
// sampling a curved Earth through a flat focal plane: pixels near the swath
// edge cover more ground per sample than pixels at nadir. forward maps a
// corrected pixel to the fractional original pixel it samples; inverse is
// the sparse nearest-integer inverse, with unpopulated entries set to -1.
type curvatureTable struct {
	forward        []float64
	inverse        []int
	correctedWidth int
}

// lookAngle converts an Earth-centered arc angle to the look angle relative
// to a satellite at orbitRadius, by the spherical law of sines.
func lookAngle(arc, orbitRadius float64) float64 {
	return -math.Atan(EarthRadiusKm * math.Sin(arc) / (math.Cos(arc)*EarthRadiusKm - orbitRadius))
}

// buildCurvatureTable precomputes the forward and inverse remapping tables
// for the given sensor geometry. swathKm and resKm fix the corrected output
// grid; heightKm is the sensor-to-surface correction height; width is the
// native image width in samples.
func buildCurvatureTable(swathKm, resKm, heightKm float64, width int) curvatureTable {
	orbitRadius := EarthRadiusKm + heightKm
	viewAngle := swathKm / EarthRadiusKm
	edgeAngle := lookAngle(viewAngle/2, orbitRadius)
	correctedWidth := int(math.Round(swathKm / resKm))

	t := curvatureTable{
		forward:        make([]float64, correctedWidth),
		inverse:        make([]int, width),
		correctedWidth: correctedWidth,
	}
	for i := range t.inverse {
		t.inverse[i] = -1
	}

	for i := 0; i < correctedWidth; i++ {
		arc := (float64(i)/float64(correctedWidth) - 0.5) * viewAngle
		sat := lookAngle(arc, orbitRadius)
		f := float64(width) * ((sat/edgeAngle + 1) / 2)
		t.forward[i] = f
		if n := int(math.Round(f)); n >= 0 && n < width {
			t.inverse[n] = i
		}
	}
	return t
}
