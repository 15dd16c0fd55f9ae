package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
)

// ApplyCommand applies a registry command to img through the supplied
// Processor and returns the resulting image. Some commands also return a
// human-readable note (otsu reports its threshold); identify returns a nil
// image and only the note. A nil Processor falls back to the pure engine.
func ApplyCommand(p Processor, img image.Image, commandName string, args []string) (image.Image, string, error) {
	if img == nil {
		return nil, "", fmt.Errorf("source image is nil")
	}
	if p == nil {
		p = Pure{}
	}
	src := ToNRGBA(img)
	if err := ValidateShape(src); err != nil {
		return nil, "", fmt.Errorf("invalid source buffer: %w", err)
	}
	switch commandName {
	case "grayscale":
		if len(args) != 0 {
			return nil, "", fmt.Errorf("grayscale takes no args")
		}
		return Grayscale(src), "", nil

	case "histogram":
		// optional arg: channel (luma|rgb)
		channel := "luma"
		if len(args) >= 1 && args[0] != "" {
			channel = args[0]
		}
		pngBytes, err := HistogramChartPNG(src, channel)
		if err != nil {
			return nil, "", err
		}
		chartImg, err := png.Decode(bytes.NewReader(pngBytes))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode chart png: %w", err)
		}
		return chartImg, "", nil

	case "otsu":
		if len(args) != 0 {
			return nil, "", fmt.Errorf("otsu takes no args")
		}
		out, t, err := p.OtsuBinarize(src)
		if err != nil {
			return nil, "", err
		}
		return out, fmt.Sprintf("otsu threshold: %d", t), nil

	case "threshold":
		if len(args) != 1 {
			return nil, "", fmt.Errorf("threshold requires 1 arg: value")
		}
		value, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("invalid value: %w", err)
		}
		if value < 0 || value > 255 {
			return nil, "", fmt.Errorf("value must be in [0,255], got %d", value)
		}
		return Threshold(src, value), "", nil

	case "adaptiveThreshold":
		if len(args) != 2 {
			return nil, "", fmt.Errorf("adaptiveThreshold requires 2 args: blockSize c")
		}
		blockSize, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("invalid blockSize: %w", err)
		}
		if blockSize < 1 || blockSize%2 == 0 {
			return nil, "", fmt.Errorf("blockSize must be an odd integer >= 1, got %d", blockSize)
		}
		c, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid c: %w", err)
		}
		out, err := p.AdaptiveThreshold(src, blockSize, c)
		return out, "", err

	case "morph":
		if len(args) != 2 {
			return nil, "", fmt.Errorf("morph requires 2 args: op radius")
		}
		op, err := ParseMorphOp(args[0])
		if err != nil {
			return nil, "", err
		}
		radius, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, "", fmt.Errorf("invalid radius: %w", err)
		}
		if radius < 0 {
			return nil, "", fmt.Errorf("radius must be >= 0, got %d", radius)
		}
		out, err := p.Morphology(src, op, radius)
		return out, "", err

	case "medianFilter":
		if len(args) != 1 {
			return nil, "", fmt.Errorf("medianFilter requires 1 arg: radius")
		}
		radius, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("invalid radius: %w", err)
		}
		if radius < 0 {
			return nil, "", fmt.Errorf("radius must be >= 0, got %d", radius)
		}
		out, err := p.MedianFilter(src, radius)
		return out, "", err

	case "contrastStretch":
		if len(args) != 2 {
			return nil, "", fmt.Errorf("contrastStretch requires 2 args: low high")
		}
		low, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid low: %w", err)
		}
		high, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid high: %w", err)
		}
		out, err := p.ContrastStretch(src, low, high)
		return out, "", err

	case "equalize":
		// optional arg: mode (rgb|hls-lightness)
		mode := "rgb"
		if len(args) >= 1 && args[0] != "" {
			mode = args[0]
		}
		switch mode {
		case "rgb":
			out, err := p.Equalize(src)
			return out, "", err
		case "hls-lightness":
			out, err := p.EqualizeHLS(src)
			return out, "", err
		}
		return nil, "", fmt.Errorf("unknown equalize mode: %s", mode)

	case "identify":
		min, max, mean := HistogramStats(LuminanceHistogram(src))
		b := src.Bounds()
		note := fmt.Sprintf("%dx%d RGBA8, engine %s, luma min %d max %d mean %.1f",
			b.Dx(), b.Dy(), p.Name(), min, max, mean)
		return nil, note, nil

	default:
		return nil, "", fmt.Errorf("unsupported command: %s", commandName)
	}
}
