package raster

import (
	"fmt"
	"image"
	"sync"
)

// MorphOp selects the grayscale morphology operator.
type MorphOp int

const (
	MorphDilate MorphOp = iota
	MorphErode
)

func (op MorphOp) String() string {
	if op == MorphErode {
		return "erode"
	}
	return "dilate"
}

// ParseMorphOp maps the registry spelling of an operator onto a MorphOp.
func ParseMorphOp(s string) (MorphOp, error) {
	switch s {
	case "dilate":
		return MorphDilate, nil
	case "erode":
		return MorphErode, nil
	}
	return 0, fmt.Errorf("unknown morphology op: %s", s)
}

// Morphology applies op over src's grayscale projection with a square
// structuring element of side 2r+1.
func Morphology(src *image.NRGBA, op MorphOp, radius int) *image.NRGBA {
	if op == MorphErode {
		return Erode(src, radius)
	}
	return Dilate(src, radius)
}

// Dilate replaces each pixel of src's grayscale projection with the maximum
// over its square (2r+1)-neighborhood and re-expands the result into RGBA
// (gray replicated, alpha 255). Out-of-bounds neighbors clamp to the nearest
// edge pixel. radius 0 leaves the projection untouched.
func Dilate(src *image.NRGBA, radius int) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	plane := morphPlane(LumaPlane(src), w, h, radius, true)
	return GrayPlaneToNRGBA(plane, w, h)
}

// Erode is the dual of Dilate: each output pixel is the minimum over the
// clamped neighborhood.
func Erode(src *image.NRGBA, radius int) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	plane := morphPlane(LumaPlane(src), w, h, radius, false)
	return GrayPlaneToNRGBA(plane, w, h)
}

// morphPlane runs the max/min window scan over a gray plane, one goroutine
// per row. Rows write disjoint stretches of out so no locking is needed.
// Clamping the window range to the plane is equivalent to replicating edge
// pixels: duplicates never change a max or min.
func morphPlane(plane []uint8, w, h, radius int, dilate bool) []uint8 {
	if radius < 0 {
		radius = 0
	}
	out := make([]uint8, w*h)
	var wg sync.WaitGroup
	for y := 0; y < h; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			y0 := clampInt(y-radius, 0, h-1)
			y1 := clampInt(y+radius, 0, h-1)
			for x := 0; x < w; x++ {
				x0 := clampInt(x-radius, 0, w-1)
				x1 := clampInt(x+radius, 0, w-1)
				best := plane[y0*w+x0]
				for oy := y0; oy <= y1; oy++ {
					row := plane[oy*w : oy*w+w]
					for ox := x0; ox <= x1; ox++ {
						v := row[ox]
						if dilate {
							if v > best {
								best = v
							}
						} else if v < best {
							best = v
						}
					}
				}
				out[y*w+x] = best
			}
		}(y)
	}
	wg.Wait()
	return out
}
