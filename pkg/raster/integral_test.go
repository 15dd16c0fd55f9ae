package raster

import (
	"math"
	"math/rand"
	"testing"
)

func TestIntegralImageMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	w, h := 16, 9
	plane := make([]uint8, w*h)
	for i := range plane {
		plane[i] = uint8(rng.Intn(256))
	}
	ii := NewIntegralImage(plane, w, h)

	brute := func(x0, y0, x1, y1 int) uint64 {
		var sum uint64
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				sum += uint64(plane[y*w+x])
			}
		}
		return sum
	}

	rects := [][4]int{
		{0, 0, w - 1, h - 1},
		{0, 0, 0, 0},
		{w - 1, h - 1, w - 1, h - 1},
		{3, 2, 10, 6},
		{0, 4, 15, 4},
		{7, 0, 7, 8},
	}
	for _, r := range rects {
		want := brute(r[0], r[1], r[2], r[3])
		got := ii.WindowSum(r[0], r[1], r[2], r[3])
		if got != want {
			t.Fatalf("WindowSum%v = %d, want %d", r, got, want)
		}
		count := (r[2] - r[0] + 1) * (r[3] - r[1] + 1)
		wantMean := float64(want) / float64(count)
		if mean := ii.WindowMean(r[0], r[1], r[2], r[3]); math.Abs(mean-wantMean) > 1e-9 {
			t.Fatalf("WindowMean%v = %v, want %v", r, mean, wantMean)
		}
	}
}

func TestIntegralImageAllWhite(t *testing.T) {
	// worst-case magnitude: sums must not wrap
	w, h := 64, 64
	plane := make([]uint8, w*h)
	for i := range plane {
		plane[i] = 255
	}
	ii := NewIntegralImage(plane, w, h)
	if got := ii.WindowSum(0, 0, w-1, h-1); got != uint64(255*w*h) {
		t.Fatalf("full-plane sum = %d, want %d", got, 255*w*h)
	}
	if mean := ii.WindowMean(0, 0, w-1, h-1); mean != 255 {
		t.Fatalf("full-plane mean = %v, want 255", mean)
	}
}
