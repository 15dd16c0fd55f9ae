package raster

import (
	"image"
)

// Luma returns the Rec.601 luminance of an 8-bit RGB triple, rounded to the
// nearest integer (0.5 rounds up). The coefficients sum to just under 1 so the
// result always fits in a uint8.
func Luma(r, g, b uint8) uint8 {
	return uint8(0.2989*float64(r) + 0.5870*float64(g) + 0.1140*float64(b) + 0.5)
}

// Grayscale converts src to grayscale by replicating the Rec.601 luma into the
// R, G and B channels. Alpha is preserved.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			lum := Luma(src.Pix[i+0], src.Pix[i+1], src.Pix[i+2])
			out.Pix[i+0] = lum
			out.Pix[i+1] = lum
			out.Pix[i+2] = lum
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}

// LumaPlane extracts the luma of every pixel into a row-major []uint8 of
// length W*H. Window-scanning filters work on this plane instead of the
// interleaved RGBA buffer.
func LumaPlane(src *image.NRGBA) []uint8 {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			plane[y*w+x] = Luma(src.Pix[i+0], src.Pix[i+1], src.Pix[i+2])
		}
	}
	return plane
}

// GrayPlaneToNRGBA expands a row-major gray plane back into an NRGBA image,
// replicating each value into R, G and B with alpha 255.
func GrayPlaneToNRGBA(plane []uint8, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.PixOffset(x, y)
			v := plane[y*w+x]
			out.Pix[i+0] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = 255
		}
	}
	return out
}
