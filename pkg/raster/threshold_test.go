package raster

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// twoClusterImage returns a 4x4 gray image whose left half is lo and right
// half is hi.
func twoClusterImage(lo, hi uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := lo
			if x >= 2 {
				v = hi
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = 255
		}
	}
	return img
}

func TestOtsuTwoClusters(t *testing.T) {
	src := twoClusterImage(50, 200)
	out, threshold := OtsuBinarize(src)
	if out == nil {
		t.Fatal("output nil")
	}
	// the variance plateau between the clusters resolves to its lowest level
	if threshold != 50 {
		t.Fatalf("threshold = %d, want 50", threshold)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := out.PixOffset(x, y)
			want := uint8(0)
			if x >= 2 {
				want = 255
			}
			if out.Pix[i+0] != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, out.Pix[i+0], want)
			}
			if out.Pix[i+0] != out.Pix[i+1] || out.Pix[i+1] != out.Pix[i+2] {
				t.Fatalf("pixel (%d,%d) is not bilevel gray", x, y)
			}
		}
	}
}

func TestOtsuUniformImage(t *testing.T) {
	// a single populated bin never yields a valid split; threshold falls
	// through to 0 and every non-black pixel lands on white
	src := makeSolidNRGBA(6, 6, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out, threshold := OtsuBinarize(src)
	if threshold != 0 {
		t.Fatalf("uniform image threshold = %d, want 0", threshold)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 255 {
			t.Fatalf("uniform gray should binarize to white, got %d", out.Pix[i])
		}
	}

	black := makeSolidNRGBA(6, 6, color.NRGBA{A: 255})
	outB, thresholdB := OtsuBinarize(black)
	if thresholdB != 0 {
		t.Fatalf("black image threshold = %d, want 0", thresholdB)
	}
	for i := 0; i < len(outB.Pix); i += 4 {
		if outB.Pix[i] != 0 {
			t.Fatalf("black image should stay black, got %d", outB.Pix[i])
		}
	}
}

func TestOtsuIdempotentOnBinary(t *testing.T) {
	src := twoClusterImage(0, 255)
	first, t1 := OtsuBinarize(src)
	if t1 != 0 {
		t.Fatalf("threshold on a 0/255 image = %d, want 0", t1)
	}
	// luma > 0 keeps the original split exactly
	for i := range src.Pix {
		if first.Pix[i] != src.Pix[i] {
			t.Fatalf("bilevel input not reproduced at byte %d: %d -> %d", i, src.Pix[i], first.Pix[i])
		}
	}
	second, t2 := OtsuBinarize(first)
	if t2 != t1 {
		t.Fatalf("second pass threshold = %d, want %d", t2, t1)
	}
	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatalf("binarizing a bilevel image changed byte %d: %d -> %d", i, first.Pix[i], second.Pix[i])
		}
	}
}

func TestOtsuThresholdHistogramDirect(t *testing.T) {
	hist := make([]int, 256)
	hist[10] = 100
	hist[240] = 100
	if got := OtsuThreshold(hist); got != 10 {
		t.Fatalf("threshold = %d, want 10", got)
	}
	if got := OtsuThreshold(make([]int, 256)); got != 0 {
		t.Fatalf("empty histogram threshold = %d, want 0", got)
	}
}

func TestThresholdStrictlyAbove(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	for x, v := range []uint8{127, 128, 129} {
		i := src.PixOffset(x, 0)
		src.Pix[i+0] = v
		src.Pix[i+1] = v
		src.Pix[i+2] = v
		src.Pix[i+3] = 255
	}
	out := Threshold(src, 128)
	want := []uint8{0, 0, 255} // only strictly-above passes
	for x := 0; x < 3; x++ {
		if got := out.Pix[out.PixOffset(x, 0)]; got != want[x] {
			t.Fatalf("pixel %d = %d, want %d", x, got, want[x])
		}
	}
}

func TestThresholdKeepsAlpha(t *testing.T) {
	src := makeSolidNRGBA(2, 2, color.NRGBA{R: 200, G: 200, B: 200, A: 77})
	out := Threshold(src, 100)
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 77 {
			t.Fatalf("alpha byte %d = %d, want 77", i, out.Pix[i])
		}
	}
}

func TestAdaptiveThresholdBlockSizeOne(t *testing.T) {
	// window of one pixel compares the pixel against itself, so the sign of
	// the bias decides everything
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	rng := rand.New(rand.NewSource(3))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}
	white := AdaptiveThreshold(src, 1, 5)
	black := AdaptiveThreshold(src, 1, 0)
	blackNeg := AdaptiveThreshold(src, 1, -5)
	for i := 0; i < len(white.Pix); i += 4 {
		if white.Pix[i] != 255 {
			t.Fatalf("c>0 should yield all white, got %d at %d", white.Pix[i], i)
		}
		if black.Pix[i] != 0 {
			t.Fatalf("c=0 should yield all black, got %d at %d", black.Pix[i], i)
		}
		if blackNeg.Pix[i] != 0 {
			t.Fatalf("c<0 should yield all black, got %d at %d", blackNeg.Pix[i], i)
		}
	}
}

func TestAdaptiveThresholdGradient(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	// horizontal gradient
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			i := src.PixOffset(x, y)
			v := uint8(x * 32)
			src.Pix[i+0] = v
			src.Pix[i+1] = v
			src.Pix[i+2] = v
			src.Pix[i+3] = 255
		}
	}
	out := AdaptiveThreshold(src, 3, 0)
	if out == nil {
		t.Fatal("output nil")
	}
	seen0 := false
	seen255 := false
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r := out.Pix[out.PixOffset(x, y)]
			switch r {
			case 0:
				seen0 = true
			case 255:
				seen255 = true
			default:
				t.Fatalf("unexpected value: %d", r)
			}
		}
	}
	if !seen0 || !seen255 {
		t.Fatalf("expected both black and white pixels; seen0=%v seen255=%v", seen0, seen255)
	}
}

func TestAdaptiveThresholdBorderMeans(t *testing.T) {
	// 1x4 ramp with blockSize 3: border windows shrink to two pixels
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x, v := range []uint8{0, 100, 200, 250} {
		i := src.PixOffset(x, 0)
		src.Pix[i+0] = v
		src.Pix[i+1] = v
		src.Pix[i+2] = v
		src.Pix[i+3] = 255
	}
	out := AdaptiveThreshold(src, 3, 0)
	// means: x0 -> 50, x1 -> 100, x2 -> 183.33, x3 -> 225
	want := []uint8{0, 0, 255, 255}
	for x := 0; x < 4; x++ {
		if got := out.Pix[out.PixOffset(x, 0)]; got != want[x] {
			t.Fatalf("pixel %d = %d, want %d", x, got, want[x])
		}
	}
}

func BenchmarkAdaptiveThreshold15(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	src := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AdaptiveThreshold(src, 15, 2)
	}
}

func BenchmarkOtsuBinarize(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	src := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = OtsuBinarize(src)
	}
}
