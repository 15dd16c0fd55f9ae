package raster

import (
	"image"
)

// MedianFilter replaces each pixel's R, G and B with the median over the
// (2r+1)x(2r+1) neighborhood, computed independently per channel.
// Out-of-bounds samples replicate the nearest edge pixel, so every window
// holds exactly (2r+1)^2 values and the median is the middle element of that
// odd-sized window. Alpha passes through unchanged from the center pixel.
// Uses a sliding-window histogram per row for O(w*h*256) worst-case but
// amortized much faster than per-pixel sorting for moderate radii.
func MedianFilter(src *image.NRGBA, radius int) *image.NRGBA {
	if src == nil {
		return nil
	}
	if radius <= 0 {
		return CloneNRGBA(src)
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	out := image.NewNRGBA(b)

	side := 2*radius + 1
	half := (side*side + 1) / 2

	// For each row process sliding window horizontally using histograms per channel
	for y := 0; y < h; y++ {
		// initialize histograms for x=0 window; clamped coordinates mean edge
		// samples are counted once per window slot, keeping the count constant
		rHist := [256]int{}
		gHist := [256]int{}
		bHist := [256]int{}
		for ox := -radius; ox <= radius; ox++ {
			cx := clampInt(ox, 0, w-1)
			for oy := y - radius; oy <= y+radius; oy++ {
				cy := clampInt(oy, 0, h-1)
				i := src.PixOffset(cx+b.Min.X, cy+b.Min.Y)
				rHist[src.Pix[i+0]]++
				gHist[src.Pix[i+1]]++
				bHist[src.Pix[i+2]]++
			}
		}
		// helper to compute initial median and cumulative for a histogram
		computeInitialMedian := func(hist *[256]int) (int, int) {
			sum := 0
			for v := 0; v < 256; v++ {
				sum += hist[v]
				if sum >= half {
					return v, sum
				}
			}
			return 0, 0
		}

		// process each x column, sliding window with running median pointers
		lastMedR, lastCumR := 0, 0
		lastMedG, lastCumG := 0, 0
		lastMedB, lastCumB := 0, 0

		for x := 0; x < w; x++ {
			if x == 0 {
				lastMedR, lastCumR = computeInitialMedian(&rHist)
				lastMedG, lastCumG = computeInitialMedian(&gHist)
				lastMedB, lastCumB = computeInitialMedian(&bHist)
			}

			// output medians, alpha from the center pixel
			mi := out.PixOffset(x+b.Min.X, y+b.Min.Y)
			out.Pix[mi+0] = uint8(lastMedR)
			out.Pix[mi+1] = uint8(lastMedG)
			out.Pix[mi+2] = uint8(lastMedB)
			out.Pix[mi+3] = src.Pix[src.PixOffset(x+b.Min.X, y+b.Min.Y)+3]

			// slide window: drop the column entering at x-radius, take in the
			// one at x+radius+1, both clamped
			removeX := clampInt(x-radius, 0, w-1)
			addX := clampInt(x+radius+1, 0, w-1)
			for oy := y - radius; oy <= y+radius; oy++ {
				cy := clampInt(oy, 0, h-1)
				ri := src.PixOffset(removeX+b.Min.X, cy+b.Min.Y)
				vR := int(src.Pix[ri+0])
				vG := int(src.Pix[ri+1])
				vB := int(src.Pix[ri+2])
				rHist[vR]--
				gHist[vG]--
				bHist[vB]--
				if vR <= lastMedR {
					lastCumR--
				}
				if vG <= lastMedG {
					lastCumG--
				}
				if vB <= lastMedB {
					lastCumB--
				}
				ai := src.PixOffset(addX+b.Min.X, cy+b.Min.Y)
				vR = int(src.Pix[ai+0])
				vG = int(src.Pix[ai+1])
				vB = int(src.Pix[ai+2])
				rHist[vR]++
				gHist[vG]++
				bHist[vB]++
				if vR <= lastMedR {
					lastCumR++
				}
				if vG <= lastMedG {
					lastCumG++
				}
				if vB <= lastMedB {
					lastCumB++
				}
			}
			// adjust medians based on updated cumulative counts
			for lastMedR > 0 && lastCumR-rHist[lastMedR] >= half {
				lastCumR -= rHist[lastMedR]
				lastMedR--
			}
			for lastMedR < 255 && lastCumR < half {
				lastMedR++
				lastCumR += rHist[lastMedR]
			}

			for lastMedG > 0 && lastCumG-gHist[lastMedG] >= half {
				lastCumG -= gHist[lastMedG]
				lastMedG--
			}
			for lastMedG < 255 && lastCumG < half {
				lastMedG++
				lastCumG += gHist[lastMedG]
			}

			for lastMedB > 0 && lastCumB-bHist[lastMedB] >= half {
				lastCumB -= bHist[lastMedB]
				lastMedB--
			}
			for lastMedB < 255 && lastCumB < half {
				lastMedB++
				lastCumB += bHist[lastMedB]
			}
		}
	}
	return out
}
