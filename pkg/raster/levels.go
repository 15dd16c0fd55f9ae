package raster

import (
	"image"
	"math"
)

// ContrastStretch linearly remaps [low, high] to [0, 255] per channel,
// clamping values outside the range. A degenerate range (high <= low) keeps
// the divisor at 1 instead of dividing by zero. Alpha unchanged.
func ContrastStretch(src *image.NRGBA, low, high float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	scale := 255.0 / math.Max(1, high-low)
	b := src.Bounds()
	out := image.NewNRGBA(b)
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			out.Pix[i+0] = uint8(clampFloatToUint8(math.Round((float64(src.Pix[i+0]) - low) * scale)))
			out.Pix[i+1] = uint8(clampFloatToUint8(math.Round((float64(src.Pix[i+1]) - low) * scale)))
			out.Pix[i+2] = uint8(clampFloatToUint8(math.Round((float64(src.Pix[i+2]) - low) * scale)))
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}

// equalizeLUT builds the classical equalization map for one channel
// histogram: LUT[v] = round((cdf[v] - cdf[0]) / (total - 1) * 255), where
// subtracting cdf[0] excludes the darkest bin's mass from the stretch. The
// LUT is non-decreasing in v. total <= 1 yields the identity map.
func equalizeLUT(hist []int, total int) [256]uint8 {
	var lut [256]uint8
	if total <= 1 {
		for v := range lut {
			lut[v] = uint8(v)
		}
		return lut
	}
	base := hist[0]
	denom := float64(total - 1)
	cdf := 0
	for v := 0; v < 256; v++ {
		cdf += hist[v]
		lut[v] = uint8(clampFloatToUint8(math.Round(float64(cdf-base) / denom * 255.0)))
	}
	return lut
}

// Equalize performs histogram equalization independently per R, G and B
// channel and returns a new image. Alpha unchanged.
func Equalize(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	rHist, gHist, bHist := ChannelHistograms(src)
	b := src.Bounds()
	total := b.Dx() * b.Dy()
	mapR := equalizeLUT(rHist, total)
	mapG := equalizeLUT(gHist, total)
	mapB := equalizeLUT(bHist, total)

	out := image.NewNRGBA(b)
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			out.Pix[i+0] = mapR[src.Pix[i+0]]
			out.Pix[i+1] = mapG[src.Pix[i+1]]
			out.Pix[i+2] = mapB[src.Pix[i+2]]
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}

// EqualizeHLS equalizes only the lightness channel in HLS space, holding hue
// and saturation fixed. The histogram is built over lightness rounded to
// [0,255]; the derived LUT stays in [0,1] and feeds straight back into the
// HLS->RGB conversion. Alpha unchanged.
func EqualizeHLS(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	total := w * h
	if total <= 1 {
		return CloneNRGBA(src)
	}

	// convert once, caching the HLS planes for the remap pass
	hue := make([]float64, total)
	light := make([]float64, total)
	sat := make([]float64, total)
	hist := make([]int, 256)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			hv, sv, lv := rgbToHsl(float64(src.Pix[i+0])/255.0, float64(src.Pix[i+1])/255.0, float64(src.Pix[i+2])/255.0)
			p := y*w + x
			hue[p] = hv
			sat[p] = sv
			light[p] = lv
			hist[int(math.Round(lv*255.0))]++
		}
	}

	base := hist[0]
	denom := float64(total - 1)
	var lut [256]float64
	cdf := 0
	for v := 0; v < 256; v++ {
		cdf += hist[v]
		lut[v] = clamp01(float64(cdf-base) / denom)
	}

	out := image.NewNRGBA(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			p := y*w + x
			l2 := lut[int(math.Round(light[p]*255.0))]
			r, g, b_ := hslToRgb(hue[p], sat[p], l2)
			out.Pix[i+0] = uint8(clampFloatToUint8(math.Round(r * 255.0)))
			out.Pix[i+1] = uint8(clampFloatToUint8(math.Round(g * 255.0)))
			out.Pix[i+2] = uint8(clampFloatToUint8(math.Round(b_ * 255.0)))
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}
