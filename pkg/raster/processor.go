package raster

import (
	"image"
)

// Processor is the strategy surface over the transforms an accelerated
// backend may serve. Implementations must match the pure functions' buffer
// shape and border policy; minor floating-point differences are acceptable
// only where the algorithm is not integer-exact. A non-nil error signals the
// caller to re-run the operation on the pure implementation.
type Processor interface {
	Name() string
	OtsuBinarize(src *image.NRGBA) (*image.NRGBA, int, error)
	AdaptiveThreshold(src *image.NRGBA, blockSize int, c float64) (*image.NRGBA, error)
	Morphology(src *image.NRGBA, op MorphOp, radius int) (*image.NRGBA, error)
	MedianFilter(src *image.NRGBA, radius int) (*image.NRGBA, error)
	ContrastStretch(src *image.NRGBA, low, high float64) (*image.NRGBA, error)
	Equalize(src *image.NRGBA) (*image.NRGBA, error)
	EqualizeHLS(src *image.NRGBA) (*image.NRGBA, error)
}

// Pure is the reference Processor: direct calls into this package. It never
// fails on well-formed input.
type Pure struct{}

func (Pure) Name() string { return "pure" }

func (Pure) OtsuBinarize(src *image.NRGBA) (*image.NRGBA, int, error) {
	out, t := OtsuBinarize(src)
	return out, t, nil
}

func (Pure) AdaptiveThreshold(src *image.NRGBA, blockSize int, c float64) (*image.NRGBA, error) {
	return AdaptiveThreshold(src, blockSize, c), nil
}

func (Pure) Morphology(src *image.NRGBA, op MorphOp, radius int) (*image.NRGBA, error) {
	return Morphology(src, op, radius), nil
}

func (Pure) MedianFilter(src *image.NRGBA, radius int) (*image.NRGBA, error) {
	return MedianFilter(src, radius), nil
}

func (Pure) ContrastStretch(src *image.NRGBA, low, high float64) (*image.NRGBA, error) {
	return ContrastStretch(src, low, high), nil
}

func (Pure) Equalize(src *image.NRGBA) (*image.NRGBA, error) {
	return Equalize(src), nil
}

func (Pure) EqualizeHLS(src *image.NRGBA) (*image.NRGBA, error) {
	return EqualizeHLS(src), nil
}
