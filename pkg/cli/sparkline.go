package cli

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// sparkGlyphs are the eight block-element levels used for the histogram
// sparkline, lowest to highest.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders hist as a row of block glyphs, cols characters wide.
// Bins are grouped evenly, and bar heights are normalized against the
// tallest group so the shape survives any image size. An all-zero histogram
// renders as a flat line.
func Sparkline(hist []int, cols int) string {
	if cols < 1 || len(hist) == 0 {
		return ""
	}
	groups := make([]int, cols)
	for i, count := range hist {
		groups[i*cols/len(hist)] += count
	}
	maxCount := 0
	for _, g := range groups {
		if g > maxCount {
			maxCount = g
		}
	}
	if maxCount < 1 {
		maxCount = 1
	}
	var sb strings.Builder
	for _, g := range groups {
		level := int(math.Round(float64(g) / float64(maxCount) * float64(len(sparkGlyphs)-1)))
		sb.WriteRune(sparkGlyphs[level])
	}
	return sb.String()
}

// SummarizeLuma returns the one-line luminance summary shown after every
// load and transform: a 32-column sparkline of the luma histogram plus the
// populated min/max levels and the mean.
func SummarizeLuma(img *image.NRGBA) string {
	hist := raster.LuminanceHistogram(img)
	if hist == nil {
		return ""
	}
	min, max, mean := raster.HistogramStats(hist)
	b := img.Bounds()
	return fmt.Sprintf("%dx%d  luma %s  min %d max %d mean %.1f",
		b.Dx(), b.Dy(), Sparkline(hist, 32), min, max, mean)
}
