package instrument

// Image is a single-channel 16-bit raster handed to external encoders and
// resamplers. Pix holds Width*Height samples in row-major order.
type Image struct {
	Pix    []uint16
	Width  int
	Height int
}

// At returns the sample at (x, y). Coordinates outside the raster are a
// programming error.
func (im Image) At(x, y int) uint16 {
	return im.Pix[y*im.Width+x]
}

// Row returns row y as a slice aliasing the image's backing storage.
func (im Image) Row(y int) []uint16 {
	return im.Pix[y*im.Width : (y+1)*im.Width]
}
