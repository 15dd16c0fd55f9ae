// Package backend provides the accelerated Processor implementation built
// on ImageMagick wands, plus the probe and fallback machinery that keeps
// the accelerated path invisible to callers when it is missing or broken.
package backend

import (
	"fmt"
	"image"
	"log/slog"

	"gopkg.in/gographics/imagick.v3/imagick"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// Magick serves the window-heavy transforms from ImageMagick. The
// single-pass LUT transforms (otsu scan, contrast stretch, equalization)
// delegate to the pure engine: they are memory-bound passes with exact
// integer contracts, and a wand round-trip buys nothing there.
//
// Construct via NewMagick only after a successful probe: the imagick
// runtime must already be initialized.
type Magick struct {
	pure         raster.Pure
	quantumScale float64 // quantum units per 8-bit level
	log          *slog.Logger
}

func NewMagick(log *slog.Logger) *Magick {
	_, qrange := imagick.GetQuantumRange()
	scale := float64(qrange) / 255.0
	if scale <= 0 {
		scale = 1
	}
	return &Magick{quantumScale: scale, log: log}
}

func (m *Magick) Name() string { return "imagick" }

func (m *Magick) OtsuBinarize(src *image.NRGBA) (*image.NRGBA, int, error) {
	return m.pure.OtsuBinarize(src)
}

func (m *Magick) ContrastStretch(src *image.NRGBA, low, high float64) (*image.NRGBA, error) {
	return m.pure.ContrastStretch(src, low, high)
}

func (m *Magick) Equalize(src *image.NRGBA) (*image.NRGBA, error) {
	return m.pure.Equalize(src)
}

func (m *Magick) EqualizeHLS(src *image.NRGBA) (*image.NRGBA, error) {
	return m.pure.EqualizeHLS(src)
}

// AdaptiveThreshold runs the local mean threshold on a wand over the
// grayscale plane. The bias argument is in quantum units; positive c lowers
// the cut exactly as in the pure engine. Border means use ImageMagick's
// edge-replicated virtual pixels, which can differ from the pure engine's
// shrinking windows in the outermost radius only.
func (m *Magick) AdaptiveThreshold(src *image.NRGBA, blockSize int, c float64) (*image.NRGBA, error) {
	if src == nil {
		return nil, nil
	}
	if blockSize < 1 {
		blockSize = 1
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	mw, err := wandFromGray(raster.LumaPlane(src), w, h)
	if err != nil {
		return nil, err
	}
	defer mw.Destroy()
	// ImageMagick cuts at mean+bias, so matching "gray > mean-c" needs -c.
	if err := mw.AdaptiveThresholdImage(uint(blockSize), uint(blockSize), -c*m.quantumScale); err != nil {
		return nil, fmt.Errorf("adaptive threshold: %w", err)
	}
	plane, err := grayFromWand(mw, w, h)
	if err != nil {
		return nil, err
	}
	out := raster.GrayPlaneToNRGBA(plane, w, h)
	copyAlpha(out, src)
	return out, nil
}

// Morphology projects to gray in Go and runs the max/min window statistic on
// a wand. Virtual pixels replicate the edge, matching the pure clamp.
func (m *Magick) Morphology(src *image.NRGBA, op raster.MorphOp, radius int) (*image.NRGBA, error) {
	if src == nil {
		return nil, nil
	}
	if radius < 0 {
		radius = 0
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	plane := raster.LumaPlane(src)
	if radius == 0 {
		return raster.GrayPlaneToNRGBA(plane, w, h), nil
	}
	mw, err := wandFromGray(plane, w, h)
	if err != nil {
		return nil, err
	}
	defer mw.Destroy()
	stat := imagick.STATISTIC_MAXIMUM
	if op == raster.MorphErode {
		stat = imagick.STATISTIC_MINIMUM
	}
	side := uint(2*radius + 1)
	if err := mw.StatisticImage(stat, side, side); err != nil {
		return nil, fmt.Errorf("morphology statistic: %w", err)
	}
	outPlane, err := grayFromWand(mw, w, h)
	if err != nil {
		return nil, err
	}
	return raster.GrayPlaneToNRGBA(outPlane, w, h), nil
}

// MedianFilter runs the median window statistic per channel. The window is
// always (2r+1) square with replicated edges, so the selected rank matches
// the pure engine; alpha is restored from the source centers afterwards.
func (m *Magick) MedianFilter(src *image.NRGBA, radius int) (*image.NRGBA, error) {
	if src == nil {
		return nil, nil
	}
	if radius <= 0 {
		return raster.CloneNRGBA(src), nil
	}
	mw, w, h, err := wandFromNRGBA(src)
	if err != nil {
		return nil, err
	}
	defer mw.Destroy()
	side := uint(2*radius + 1)
	if err := mw.StatisticImage(imagick.STATISTIC_MEDIAN, side, side); err != nil {
		return nil, fmt.Errorf("median statistic: %w", err)
	}
	out, err := nrgbaFromWand(mw, w, h)
	if err != nil {
		return nil, err
	}
	copyAlpha(out, src)
	return out, nil
}

// wandFromNRGBA loads src into a fresh wand, repacking if the stride
// carries padding.
func wandFromNRGBA(src *image.NRGBA) (*imagick.MagickWand, int, int, error) {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	pix := src.Pix
	if src.Stride != 4*w {
		pix = make([]uint8, 4*w*h)
		for y := 0; y < h; y++ {
			copy(pix[y*4*w:(y+1)*4*w], src.Pix[y*src.Stride:y*src.Stride+4*w])
		}
	}
	mw := imagick.NewMagickWand()
	if err := mw.ConstituteImage(uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR, pix); err != nil {
		mw.Destroy()
		return nil, 0, 0, fmt.Errorf("constitute rgba: %w", err)
	}
	return mw, w, h, nil
}

func nrgbaFromWand(mw *imagick.MagickWand, w, h int) (*image.NRGBA, error) {
	raw, err := mw.ExportImagePixels(0, 0, uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("export rgba: %w", err)
	}
	pix, ok := raw.([]uint8)
	if !ok || len(pix) != w*h*4 {
		return nil, fmt.Errorf("unexpected rgba export: %T", raw)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, pix)
	return out, nil
}

func wandFromGray(plane []uint8, w, h int) (*imagick.MagickWand, error) {
	mw := imagick.NewMagickWand()
	if err := mw.ConstituteImage(uint(w), uint(h), "I", imagick.PIXEL_CHAR, plane); err != nil {
		mw.Destroy()
		return nil, fmt.Errorf("constitute gray: %w", err)
	}
	return mw, nil
}

func grayFromWand(mw *imagick.MagickWand, w, h int) ([]uint8, error) {
	raw, err := mw.ExportImagePixels(0, 0, uint(w), uint(h), "I", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("export gray: %w", err)
	}
	plane, ok := raw.([]uint8)
	if !ok || len(plane) != w*h {
		return nil, fmt.Errorf("unexpected gray export: %T", raw)
	}
	return plane, nil
}

// copyAlpha overwrites dst's alpha channel with src's, pixel for pixel.
// Both images must share dimensions; dst uses a zero-origin rect.
func copyAlpha(dst, src *image.NRGBA) {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			di := dst.PixOffset(x, y)
			si := src.PixOffset(x+b.Min.X, y+b.Min.Y)
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
}
