package raster

import (
	"image"
)

// OtsuThreshold scans the luminance histogram for the threshold that
// maximizes between-class variance. Ties keep the lowest threshold. A
// histogram with a single populated bin never produces a valid split, so the
// scan falls through and returns 0.
func OtsuThreshold(hist []int) int {
	total := 0
	sum := 0
	for t, c := range hist {
		total += c
		sum += t * c
	}
	wB := 0
	sumB := 0
	best := 0
	maxVariance := 0.0
	for t := 0; t < len(hist); t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += t * hist[t]
		meanB := float64(sumB) / float64(wB)
		meanF := float64(sum-sumB) / float64(wF)
		diff := meanB - meanF
		v := float64(wB) * float64(wF) * diff * diff
		if v > maxVariance {
			maxVariance = v
			best = t
		}
	}
	return best
}

// OtsuBinarize derives the Otsu threshold from src's luminance histogram and
// binarizes against it. Returns the bilevel image and the threshold used.
// Pixels with luma strictly above the threshold become white.
func OtsuBinarize(src *image.NRGBA) (*image.NRGBA, int) {
	if src == nil {
		return nil, 0
	}
	t := OtsuThreshold(LuminanceHistogram(src))
	return binarizeLuma(src, t), t
}

// Threshold binarizes src against a fixed luma threshold in [0,255].
// Pixels with luma strictly above value become white, the rest black.
func Threshold(src *image.NRGBA, value int) *image.NRGBA {
	if src == nil {
		return nil
	}
	return binarizeLuma(src, clampInt(value, 0, 255))
}

func binarizeLuma(src *image.NRGBA, t int) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			v := uint8(0)
			if int(Luma(src.Pix[i+0], src.Pix[i+1], src.Pix[i+2])) > t {
				v = 255
			}
			out.Pix[i+0] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}

// AdaptiveThreshold applies a local mean threshold over a square window of
// side blockSize (radius blockSize/2). Border windows shrink to the part that
// overlaps the image and divide by their actual pixel count. A pixel becomes
// white iff its luma is strictly greater than windowMean - c. The integral
// image makes the cost independent of blockSize.
//
// blockSize 1 degenerates to comparing each pixel against itself, so the
// output is all white when c > 0 and all black otherwise.
func AdaptiveThreshold(src *image.NRGBA, blockSize int, c float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	if blockSize < 1 {
		blockSize = 1
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	plane := LumaPlane(src)
	integ := NewIntegralImage(plane, w, h)

	out := image.NewNRGBA(b)
	radius := blockSize / 2
	for y := 0; y < h; y++ {
		y0 := clampInt(y-radius, 0, h-1)
		y1 := clampInt(y+radius, 0, h-1)
		for x := 0; x < w; x++ {
			x0 := clampInt(x-radius, 0, w-1)
			x1 := clampInt(x+radius, 0, w-1)
			mean := integ.WindowMean(x0, y0, x1, y1)
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			v := uint8(0)
			if float64(plane[y*w+x]) > mean-c {
				v = 255
			}
			out.Pix[i+0] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}
