package raster

import (
	"image"
)

// LuminanceHistogram counts Rec.601 luma occurrences over all pixels of src.
// The returned slice has 256 bins and its counts sum to W*H.
func LuminanceHistogram(src *image.NRGBA) []int {
	if src == nil {
		return nil
	}
	hist := make([]int, 256)
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			hist[Luma(src.Pix[i+0], src.Pix[i+1], src.Pix[i+2])]++
		}
	}
	return hist
}

// ChannelHistograms computes independent 256-bin histograms for the R, G and B
// channels. Used by RGB-mode equalization and the histogram chart.
func ChannelHistograms(src *image.NRGBA) ([]int, []int, []int) {
	if src == nil {
		return nil, nil, nil
	}
	rHist := make([]int, 256)
	gHist := make([]int, 256)
	bHist := make([]int, 256)
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			rHist[src.Pix[i+0]]++
			gHist[src.Pix[i+1]]++
			bHist[src.Pix[i+2]]++
		}
	}
	return rHist, gHist, bHist
}

// NormalizeHistogram scales counts so the tallest bin maps to 1.0. The divisor
// is clamped to at least 1 so an empty histogram normalizes to all zeros
// instead of dividing by zero.
func NormalizeHistogram(hist []int) []float64 {
	out := make([]float64, len(hist))
	maxCount := 0
	for _, v := range hist {
		if v > maxCount {
			maxCount = v
		}
	}
	if maxCount < 1 {
		maxCount = 1
	}
	for i, v := range hist {
		out[i] = float64(v) / float64(maxCount)
	}
	return out
}

// HistogramStats returns the lowest and highest populated levels and the mean
// level of a histogram. An empty histogram reports (0, 0, 0).
func HistogramStats(hist []int) (min, max int, mean float64) {
	total := 0
	sum := 0
	min = -1
	for v, count := range hist {
		if count == 0 {
			continue
		}
		if min < 0 {
			min = v
		}
		max = v
		total += count
		sum += v * count
	}
	if total == 0 {
		return 0, 0, 0
	}
	return min, max, float64(sum) / float64(total)
}
