package raster

import (
	"math"
)

// RGB<->HSL conversions operate on 0..1 floats.

func rgbToHsl(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		// achromatic
		h = 0
		s = 0
		return
	}
	d := max - min
	if l > 0.5 {
		s = d / (2.0 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h /= 6
	return
}

func hueToRgb(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

func hslToRgb(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		// achromatic
		r = l
		g = l
		b = l
		return
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRgb(p, q, h+1.0/3.0)
	g = hueToRgb(p, q, h)
	b = hueToRgb(p, q, h-1.0/3.0)
	return
}

// RGBToHLS converts an 8-bit RGB triple to hue, lightness and saturation,
// each in [0,1]. Achromatic input reports hue and saturation 0.
func RGBToHLS(r, g, b uint8) (hue, light, sat float64) {
	h, s, l := rgbToHsl(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0)
	return h, l, s
}

// HLSToRGB is the inverse of RGBToHLS. Round-trips are close but not
// bit-exact due to floating point.
func HLSToRGB(hue, light, sat float64) (r, g, b uint8) {
	rf, gf, bf := hslToRgb(hue, sat, light)
	r = uint8(clampFloatToUint8(math.Round(rf * 255.0)))
	g = uint8(clampFloatToUint8(math.Round(gf * 255.0)))
	b = uint8(clampFloatToUint8(math.Round(bf * 255.0)))
	return
}
