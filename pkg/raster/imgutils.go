package raster

import (
	"fmt"
	"image"
	"image/color"
)

// ToNRGBA converts any image.Image to *image.NRGBA (non-premultiplied RGBA).
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		// return a copy to avoid modifying original
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := src.At(x, y).RGBA()
			// r,g,b,a are 16-bit [0, 65535]; convert to 8-bit
			out.Pix[idx+0] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b_ >> 8)
			out.Pix[idx+3] = uint8(a >> 8)
			idx += 4
		}
	}
	return out
}

// CloneNRGBA returns a copy of the provided image.NRGBA
func CloneNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// ValidateShape checks that the pixel buffer of src matches its declared bounds.
// Callers that construct NRGBA buffers by hand (decoders, the accelerated
// backend) should run their output through this before handing it on.
func ValidateShape(src *image.NRGBA) error {
	if src == nil {
		return fmt.Errorf("image is nil")
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", w, h)
	}
	if want := w * h * 4; len(src.Pix) < want {
		return fmt.Errorf("pixel buffer too short: have %d, want %d", len(src.Pix), want)
	}
	return nil
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloatToUint8(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
