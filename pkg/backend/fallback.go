package backend

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// Fallback wraps an accelerated Processor so that a failing or panicking
// operation is retried on the pure engine instead of surfacing to the
// caller. Failures are logged at Warn; the caller only ever sees the pure
// engine's result.
type Fallback struct {
	accel raster.Processor
	pure  raster.Pure
	log   *slog.Logger
}

// NewFallback wraps accel. log must be non-nil.
func NewFallback(accel raster.Processor, log *slog.Logger) *Fallback {
	return &Fallback{accel: accel, log: log}
}

func (f *Fallback) Name() string { return f.accel.Name() }

// guard invokes fn with panics converted to errors, so a misbehaving
// native library degrades like any other per-operation failure.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return fn()
}

func (f *Fallback) report(op string, err error) {
	f.log.Warn("backend operation failed, using pure engine", "backend", f.accel.Name(), "op", op, "err", err)
}

func (f *Fallback) OtsuBinarize(src *image.NRGBA) (*image.NRGBA, int, error) {
	var out *image.NRGBA
	var t int
	err := guard(func() error {
		var e error
		out, t, e = f.accel.OtsuBinarize(src)
		return e
	})
	if err != nil {
		f.report("otsuBinarize", err)
		return f.pure.OtsuBinarize(src)
	}
	return out, t, nil
}

func (f *Fallback) AdaptiveThreshold(src *image.NRGBA, blockSize int, c float64) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := guard(func() error {
		var e error
		out, e = f.accel.AdaptiveThreshold(src, blockSize, c)
		return e
	})
	if err != nil {
		f.report("adaptiveThreshold", err)
		return f.pure.AdaptiveThreshold(src, blockSize, c)
	}
	return out, nil
}

func (f *Fallback) Morphology(src *image.NRGBA, op raster.MorphOp, radius int) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := guard(func() error {
		var e error
		out, e = f.accel.Morphology(src, op, radius)
		return e
	})
	if err != nil {
		f.report("morphology", err)
		return f.pure.Morphology(src, op, radius)
	}
	return out, nil
}

func (f *Fallback) MedianFilter(src *image.NRGBA, radius int) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := guard(func() error {
		var e error
		out, e = f.accel.MedianFilter(src, radius)
		return e
	})
	if err != nil {
		f.report("medianFilter", err)
		return f.pure.MedianFilter(src, radius)
	}
	return out, nil
}

func (f *Fallback) ContrastStretch(src *image.NRGBA, low, high float64) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := guard(func() error {
		var e error
		out, e = f.accel.ContrastStretch(src, low, high)
		return e
	})
	if err != nil {
		f.report("contrastStretch", err)
		return f.pure.ContrastStretch(src, low, high)
	}
	return out, nil
}

func (f *Fallback) Equalize(src *image.NRGBA) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := guard(func() error {
		var e error
		out, e = f.accel.Equalize(src)
		return e
	})
	if err != nil {
		f.report("equalize", err)
		return f.pure.Equalize(src)
	}
	return out, nil
}

func (f *Fallback) EqualizeHLS(src *image.NRGBA) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := guard(func() error {
		var e error
		out, e = f.accel.EqualizeHLS(src)
		return e
	})
	if err != nil {
		f.report("equalizeHLS", err)
		return f.pure.EqualizeHLS(src)
	}
	return out, nil
}
