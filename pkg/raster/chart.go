package raster

import (
	"bytes"
	"fmt"
	"image"

	"github.com/wcharczuk/go-chart/v2"
)

// HistogramChartPNG renders a line chart of src's display-normalized
// histogram as PNG bytes. channel "luma" draws the single luminance series,
// "rgb" overlays the three channel series. The y axis is percent of the
// tallest bin, so shape survives any image size.
func HistogramChartPNG(src *image.NRGBA, channel string) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	levels := make([]float64, 256)
	for i := range levels {
		levels[i] = float64(i)
	}
	percent := func(hist []int) []float64 {
		norm := NormalizeHistogram(hist)
		for i, v := range norm {
			norm[i] = v * 100.0
		}
		return norm
	}

	var series []chart.Series
	switch channel {
	case "", "luma":
		series = []chart.Series{
			chart.ContinuousSeries{
				Name:    "luma",
				XValues: levels,
				YValues: percent(LuminanceHistogram(src)),
				Style:   chart.Style{StrokeColor: chart.ColorAlternateGray},
			},
		}
	case "rgb":
		rHist, gHist, bHist := ChannelHistograms(src)
		series = []chart.Series{
			chart.ContinuousSeries{Name: "r", XValues: levels, YValues: percent(rHist), Style: chart.Style{StrokeColor: chart.ColorRed}},
			chart.ContinuousSeries{Name: "g", XValues: levels, YValues: percent(gHist), Style: chart.Style{StrokeColor: chart.ColorGreen}},
			chart.ContinuousSeries{Name: "b", XValues: levels, YValues: percent(bHist), Style: chart.Style{StrokeColor: chart.ColorBlue}},
		}
	default:
		return nil, fmt.Errorf("unknown histogram channel: %s", channel)
	}

	graph := chart.Chart{
		Width:  640,
		Height: 320,
		XAxis: chart.XAxis{
			Name:  "level",
			Range: &chart.ContinuousRange{Min: 0, Max: 255},
		},
		YAxis: chart.YAxis{
			Name:  "% of peak bin",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render histogram chart: %w", err)
	}
	return buf.Bytes(), nil
}
