package raster

import (
	"image"
	"testing"
)

// markerRow builds a 2x1 image with distinct gray pixels A=10 and B=20.
func markerRow() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	for x, v := range []uint8{10, 20} {
		i := img.PixOffset(x, 0)
		img.Pix[i+0] = v
		img.Pix[i+1] = v
		img.Pix[i+2] = v
		img.Pix[i+3] = 255
	}
	return img
}

func pixelAt(img image.Image, x, y int) uint8 {
	n := ToNRGBA(img)
	return n.Pix[n.PixOffset(x, y)]
}

func TestAutoOrientIdentityTags(t *testing.T) {
	src := markerRow()
	for _, tag := range []int{0, 1, 9, -3} {
		if out := AutoOrient(src, tag); out != src {
			t.Fatalf("tag %d should return the input unchanged", tag)
		}
	}
}

func TestAutoOrientMirror(t *testing.T) {
	out := AutoOrient(markerRow(), 2)
	if pixelAt(out, 0, 0) != 20 || pixelAt(out, 1, 0) != 10 {
		t.Fatalf("horizontal mirror wrong: %d %d", pixelAt(out, 0, 0), pixelAt(out, 1, 0))
	}
}

func TestAutoOrientRotate180(t *testing.T) {
	out := AutoOrient(markerRow(), 3)
	if pixelAt(out, 0, 0) != 20 || pixelAt(out, 1, 0) != 10 {
		t.Fatalf("rotate 180 wrong: %d %d", pixelAt(out, 0, 0), pixelAt(out, 1, 0))
	}
}

func TestAutoOrientRotate90CW(t *testing.T) {
	out := AutoOrient(markerRow(), 6)
	b := out.Bounds()
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("rotate 90 bounds %v, want 1x2", b)
	}
	// A was leftmost, after CW rotation it is on top
	if pixelAt(out, 0, 0) != 10 || pixelAt(out, 0, 1) != 20 {
		t.Fatalf("rotate 90 CW wrong: %d %d", pixelAt(out, 0, 0), pixelAt(out, 0, 1))
	}
}

func TestAutoOrientRotate90CCW(t *testing.T) {
	out := AutoOrient(markerRow(), 8)
	b := out.Bounds()
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("rotate 270 bounds %v, want 1x2", b)
	}
	// CCW rotation puts the left pixel at the bottom
	if pixelAt(out, 0, 0) != 20 || pixelAt(out, 0, 1) != 10 {
		t.Fatalf("rotate 90 CCW wrong: %d %d", pixelAt(out, 0, 0), pixelAt(out, 0, 1))
	}
}

func TestAutoOrientTranspose(t *testing.T) {
	out := AutoOrient(markerRow(), 5)
	b := out.Bounds()
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("transpose bounds %v, want 1x2", b)
	}
	if pixelAt(out, 0, 0) != 10 || pixelAt(out, 0, 1) != 20 {
		t.Fatalf("transpose wrong: %d %d", pixelAt(out, 0, 0), pixelAt(out, 0, 1))
	}
}
