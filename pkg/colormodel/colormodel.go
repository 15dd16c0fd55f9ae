// Package colormodel defines the color spaces the CLI can display and edit:
// a small closed set of models, each carrying its conversion pair to and
// from 8-bit RGB plus named field access so callers can read and write
// components without knowing the space.
package colormodel

import (
	"fmt"
	"math"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// Model is one color space. Field values use the space's natural units:
// RGB 0..255, HLS and CMYK 0..1. Conversions clamp out-of-range input
// rather than failing.
type Model struct {
	Name    string
	Fields  []string
	FromRGB func(r, g, b uint8) []float64
	ToRGB   func(fields []float64) (r, g, b uint8)
}

// GetField returns the named field from vals.
func (m *Model) GetField(vals []float64, name string) (float64, error) {
	for i, f := range m.Fields {
		if f == name {
			if i >= len(vals) {
				return 0, fmt.Errorf("%s: missing value for field %s", m.Name, name)
			}
			return vals[i], nil
		}
	}
	return 0, fmt.Errorf("%s has no field %s", m.Name, name)
}

// SetField returns a copy of vals with the named field replaced.
func (m *Model) SetField(vals []float64, name string, v float64) ([]float64, error) {
	for i, f := range m.Fields {
		if f == name {
			if i >= len(vals) {
				return nil, fmt.Errorf("%s: missing value for field %s", m.Name, name)
			}
			out := append([]float64(nil), vals...)
			out[i] = v
			return out, nil
		}
	}
	return nil, fmt.Errorf("%s has no field %s", m.Name, name)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// RGB is the identity model; fields in 0..255.
var RGB = &Model{
	Name:   "rgb",
	Fields: []string{"r", "g", "b"},
	FromRGB: func(r, g, b uint8) []float64 {
		return []float64{float64(r), float64(g), float64(b)}
	},
	ToRGB: func(f []float64) (uint8, uint8, uint8) {
		return clampByte(f[0]), clampByte(f[1]), clampByte(f[2])
	},
}

// HLS wraps the raster package's six-case conversion; fields in 0..1.
var HLS = &Model{
	Name:   "hls",
	Fields: []string{"h", "l", "s"},
	FromRGB: func(r, g, b uint8) []float64 {
		h, l, s := raster.RGBToHLS(r, g, b)
		return []float64{h, l, s}
	},
	ToRGB: func(f []float64) (uint8, uint8, uint8) {
		return raster.HLSToRGB(clamp01(f[0]), clamp01(f[1]), clamp01(f[2]))
	},
}

// CMYK uses the standard key-extraction formulas; fields in 0..1. Pure
// black maps to c=m=y=0, k=1.
var CMYK = &Model{
	Name:   "cmyk",
	Fields: []string{"c", "m", "y", "k"},
	FromRGB: func(r, g, b uint8) []float64 {
		rf := float64(r) / 255.0
		gf := float64(g) / 255.0
		bf := float64(b) / 255.0
		k := 1.0 - math.Max(rf, math.Max(gf, bf))
		if k >= 1.0 {
			return []float64{0, 0, 0, 1}
		}
		d := 1.0 - k
		return []float64{(1.0 - rf - k) / d, (1.0 - gf - k) / d, (1.0 - bf - k) / d, k}
	},
	ToRGB: func(f []float64) (uint8, uint8, uint8) {
		c := clamp01(f[0])
		m := clamp01(f[1])
		y := clamp01(f[2])
		k := clamp01(f[3])
		return clampByte(255.0 * (1.0 - c) * (1.0 - k)),
			clampByte(255.0 * (1.0 - m) * (1.0 - k)),
			clampByte(255.0 * (1.0 - y) * (1.0 - k))
	},
}

// Models lists every registered model in display order.
var Models = []*Model{RGB, HLS, CMYK}

// Lookup finds a model by name.
func Lookup(name string) (*Model, error) {
	for _, m := range Models {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown color model: %s", name)
}
