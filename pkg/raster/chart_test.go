package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestHistogramChartPNG(t *testing.T) {
	src := makeSolidNRGBA(16, 16, color.NRGBA{R: 30, G: 120, B: 210, A: 255})
	for _, channel := range []string{"", "luma", "rgb"} {
		blob, err := HistogramChartPNG(src, channel)
		if err != nil {
			t.Fatalf("channel %q: %v", channel, err)
		}
		if len(blob) == 0 {
			t.Fatalf("channel %q: empty chart", channel)
		}
		img, err := png.Decode(bytes.NewReader(blob))
		if err != nil {
			t.Fatalf("channel %q: chart is not valid png: %v", channel, err)
		}
		b := img.Bounds()
		if b.Dx() != 640 || b.Dy() != 320 {
			t.Fatalf("channel %q: chart %dx%d, want 640x320", channel, b.Dx(), b.Dy())
		}
	}
}

func TestHistogramChartPNGErrors(t *testing.T) {
	if _, err := HistogramChartPNG(nil, "luma"); err == nil {
		t.Fatalf("nil source accepted")
	}
	src := makeSolidNRGBA(4, 4, color.NRGBA{A: 255})
	if _, err := HistogramChartPNG(src, "hsv"); err == nil {
		t.Fatalf("unknown channel accepted")
	}
}
