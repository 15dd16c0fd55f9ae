package raster

// IntegralImage is a summed-area table over a row-major luma plane. Entry
// (x,y) holds the sum of every plane value above and left of (x,y), so any
// rectangle sum costs four lookups regardless of window size. Sums are uint64
// since 255*W*H overflows uint32 beyond ~16 megapixels.
type IntegralImage struct {
	w, h int
	sums []uint64
}

// NewIntegralImage builds the table for a w x h plane. The table has one
// extra row and column of zeros so window lookups need no boundary special
// cases.
func NewIntegralImage(plane []uint8, w, h int) *IntegralImage {
	ii := &IntegralImage{w: w, h: h, sums: make([]uint64, (w+1)*(h+1))}
	stride := w + 1
	for y := 1; y <= h; y++ {
		rowSum := uint64(0)
		for x := 1; x <= w; x++ {
			rowSum += uint64(plane[(y-1)*w+(x-1)])
			ii.sums[y*stride+x] = ii.sums[(y-1)*stride+x] + rowSum
		}
	}
	return ii
}

// WindowSum returns the sum of plane values in the inclusive rectangle
// [x0,x1]x[y0,y1]. Coordinates must already be clamped to the plane.
func (ii *IntegralImage) WindowSum(x0, y0, x1, y1 int) uint64 {
	stride := ii.w + 1
	ex := x1 + 1
	ey := y1 + 1
	return ii.sums[ey*stride+ex] - ii.sums[y0*stride+ex] - ii.sums[ey*stride+x0] + ii.sums[y0*stride+x0]
}

// WindowMean returns the mean plane value over the same inclusive rectangle.
func (ii *IntegralImage) WindowMean(x0, y0, x1, y1 int) float64 {
	count := (x1 - x0 + 1) * (y1 - y0 + 1)
	return float64(ii.WindowSum(x0, y0, x1, y1)) / float64(count)
}
