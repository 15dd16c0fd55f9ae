package raster

import (
	"image"
)

// AutoOrient bakes an EXIF orientation tag (1..8) into the pixels so
// downstream transforms never see a rotated buffer. Tag 1 and out-of-range
// values return img unchanged.
func AutoOrient(img image.Image, orientation int) image.Image {
	if img == nil {
		return nil
	}
	if orientation <= 1 || orientation > 8 {
		return img
	}
	src := ToNRGBA(img)
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	// each case maps a source pixel to its destination slot
	switch orientation {
	case 2: // mirrored horizontally
		return remap(src, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
	case 3: // rotated 180
		return remap(src, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4: // mirrored vertically
		return remap(src, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
	case 5: // transpose
		return remap(src, h, w, func(x, y int) (int, int) { return y, x })
	case 6: // rotated 90 CW
		return remap(src, h, w, func(x, y int) (int, int) { return h - 1 - y, x })
	case 7: // transverse
		return remap(src, h, w, func(x, y int) (int, int) { return h - 1 - y, w - 1 - x })
	case 8: // rotated 90 CCW
		return remap(src, h, w, func(x, y int) (int, int) { return y, w - 1 - x })
	}
	return img
}

// remap copies src into an outW x outH image, placing each source pixel at
// dst(x, y).
func remap(src *image.NRGBA, outW, outH int, dst func(x, y int) (int, int)) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			dx, dy := dst(x, y)
			dstIdx := out.PixOffset(dx, dy)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}
