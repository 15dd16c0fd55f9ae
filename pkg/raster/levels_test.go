package raster

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func rowImage(vals ...uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(vals), 1))
	for x, v := range vals {
		i := img.PixOffset(x, 0)
		img.Pix[i+0] = v
		img.Pix[i+1] = v
		img.Pix[i+2] = v
		img.Pix[i+3] = 255
	}
	return img
}

func TestContrastStretchRemap(t *testing.T) {
	src := rowImage(100, 155, 250)
	out := ContrastStretch(src, 100, 200)
	// (v-100)*255/100, rounded then clamped
	want := []uint8{0, 140, 255}
	for x := 0; x < 3; x++ {
		got := out.Pix[out.PixOffset(x, 0)]
		if got != want[x] {
			t.Fatalf("pixel %d = %d, want %d", x, got, want[x])
		}
	}
}

func TestContrastStretchClampsOutside(t *testing.T) {
	src := rowImage(10, 50, 220)
	out := ContrastStretch(src, 50, 180)
	if got := out.Pix[out.PixOffset(0, 0)]; got != 0 {
		t.Fatalf("below low should clamp to 0, got %d", got)
	}
	if got := out.Pix[out.PixOffset(2, 0)]; got != 255 {
		t.Fatalf("above high should clamp to 255, got %d", got)
	}
}

func TestContrastStretchDegenerateRange(t *testing.T) {
	// high <= low keeps the divisor at 1: a step function around low
	src := rowImage(49, 50, 51)
	out := ContrastStretch(src, 50, 50)
	want := []uint8{0, 0, 255}
	for x := 0; x < 3; x++ {
		got := out.Pix[out.PixOffset(x, 0)]
		if got != want[x] {
			t.Fatalf("pixel %d = %d, want %d", x, got, want[x])
		}
	}
}

func TestContrastStretchKeepsAlpha(t *testing.T) {
	src := makeSolidNRGBA(2, 2, color.NRGBA{R: 90, G: 120, B: 30, A: 33})
	out := ContrastStretch(src, 0, 255)
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 33 {
			t.Fatalf("alpha changed: %d", out.Pix[i])
		}
	}
}

func TestEqualizeLUTMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	hist := make([]int, 256)
	total := 0
	for v := range hist {
		hist[v] = rng.Intn(50)
		total += hist[v]
	}
	lut := equalizeLUT(hist, total)
	for v := 1; v < 256; v++ {
		if lut[v] < lut[v-1] {
			t.Fatalf("lut decreases at %d: %d -> %d", v, lut[v-1], lut[v])
		}
	}
}

func TestEqualizeLUTIdentityForTinyTotal(t *testing.T) {
	hist := make([]int, 256)
	hist[97] = 1
	lut := equalizeLUT(hist, 1)
	for v := 0; v < 256; v++ {
		if lut[v] != uint8(v) {
			t.Fatalf("total<=1 lut[%d] = %d, want identity", v, lut[v])
		}
	}
}

func TestEqualizeSinglePixelUnchanged(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{R: 57, G: 211, B: 3, A: 255})
	out := Equalize(src)
	for i := 0; i < 4; i++ {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("single pixel changed at %d: %d -> %d", i, src.Pix[i], out.Pix[i])
		}
	}
}

func TestEqualizeTwoLevelSpread(t *testing.T) {
	// 32 pixels at 100, 32 at 200: cdf midpoint lands on 130, top on 255
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(100)
			if x >= 4 {
				v = 200
			}
			i := src.PixOffset(x, y)
			src.Pix[i+0] = v
			src.Pix[i+1] = v
			src.Pix[i+2] = v
			src.Pix[i+3] = 255
		}
	}
	out := Equalize(src)
	lo := out.Pix[out.PixOffset(0, 0)]
	hi := out.Pix[out.PixOffset(7, 0)]
	if lo != 130 || hi != 255 {
		t.Fatalf("equalized levels = %d/%d, want 130/255", lo, hi)
	}
	if hi-lo <= 100 {
		t.Fatalf("equalize did not widen the gap: %d", hi-lo)
	}
}

func TestEqualizeDarkAnchor(t *testing.T) {
	// when the image contains black, black stays at 0
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if x >= 4 {
				v = 200
			}
			i := src.PixOffset(x, y)
			src.Pix[i+0] = v
			src.Pix[i+1] = v
			src.Pix[i+2] = v
			src.Pix[i+3] = 255
		}
	}
	out := Equalize(src)
	if got := out.Pix[out.PixOffset(0, 0)]; got != 0 {
		t.Fatalf("black pixel moved to %d", got)
	}
}

func TestEqualizeHLSKeepsHue(t *testing.T) {
	// two lightness levels of the same pure red hue; hue must survive
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r := uint8(100)
			if x >= 2 {
				r = 200
			}
			i := src.PixOffset(x, y)
			src.Pix[i+0] = r
			src.Pix[i+3] = 255
		}
	}
	out := EqualizeHLS(src)
	// darker cluster stays red: green and blue equal and well below red
	i := out.PixOffset(0, 0)
	if out.Pix[i+1] != out.Pix[i+2] {
		t.Fatalf("hue drifted: G=%d B=%d", out.Pix[i+1], out.Pix[i+2])
	}
	if out.Pix[i+0] < 200 || out.Pix[i+1] > 60 {
		t.Fatalf("dark red cluster remapped to R=%d G=%d B=%d", out.Pix[i+0], out.Pix[i+1], out.Pix[i+2])
	}
	// brighter cluster tops out at full lightness
	j := out.PixOffset(3, 0)
	if out.Pix[j+0] != 255 || out.Pix[j+1] != 255 || out.Pix[j+2] != 255 {
		t.Fatalf("top cluster = %d,%d,%d, want white", out.Pix[j+0], out.Pix[j+1], out.Pix[j+2])
	}
}

func TestEqualizeHLSSinglePixelUnchanged(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{R: 180, G: 40, B: 90, A: 128})
	out := EqualizeHLS(src)
	for i := 0; i < 4; i++ {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("single pixel changed at %d", i)
		}
	}
}

func BenchmarkEqualize(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	src := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Equalize(src)
	}
}

func BenchmarkEqualizeHLS(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	src := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EqualizeHLS(src)
	}
}
