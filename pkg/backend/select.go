package backend

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"

	"gopkg.in/gographics/imagick.v3/imagick"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// Select picks the Processor for this run and returns it with a shutdown
// function the caller must invoke before exit. The accelerated engine is
// used only when the runtime probe passes; PIXLAB_PURE forces the pure
// engine regardless. Selection never fails: the worst case is the pure
// engine and a log line.
func Select(log *slog.Logger) (raster.Processor, func()) {
	if os.Getenv("PIXLAB_PURE") != "" {
		log.Info("engine selected", "engine", "pure", "reason", "PIXLAB_PURE set")
		return raster.Pure{}, func() {}
	}
	if err := probe(); err != nil {
		log.Info("accelerated engine unavailable, using pure", "err", err)
		return raster.Pure{}, func() {}
	}
	log.Info("engine selected", "engine", "imagick")
	return NewFallback(NewMagick(log), log), imagick.Terminate
}

// probe initializes the imagick runtime and pushes a small RGBA buffer
// through a wand round-trip. Any panic, error or byte mismatch fails the
// probe; on failure the runtime is torn down again so the pure path runs
// in a clean process.
func probe() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("imagick probe panic: %v", r)
		}
		if err != nil {
			imagick.Terminate()
		}
	}()
	imagick.Initialize()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	copy(src.Pix, []uint8{
		0, 0, 0, 255, 255, 255, 255, 255,
		10, 120, 250, 255, 128, 128, 128, 64,
	})
	mw, w, h, err := wandFromNRGBA(src)
	if err != nil {
		return err
	}
	defer mw.Destroy()
	out, err := nrgbaFromWand(mw, w, h)
	if err != nil {
		return err
	}
	if !bytes.Equal(out.Pix, src.Pix) {
		return fmt.Errorf("imagick probe round-trip mismatch")
	}
	return nil
}
