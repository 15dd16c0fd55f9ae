package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/pixlab/pkg/colormodel"
	"github.com/Fepozopo/pixlab/pkg/raster"
)

// ParseColorValue resolves the colorinfo argument to an RGB triple. Two
// forms are accepted: a CSS name or hex string ("#804020", "tomato"), or a
// model-prefixed field list ("hls:0.5,0.4,1", "cmyk:0,0.5,0.75,0.5") whose
// fields are given in the model's natural units and order.
func ParseColorValue(s string) (r, g, b uint8, err error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		model, err := colormodel.Lookup(strings.ToLower(s[:i]))
		if err != nil {
			return 0, 0, 0, err
		}
		parts := strings.Split(s[i+1:], ",")
		if len(parts) != len(model.Fields) {
			return 0, 0, 0, fmt.Errorf("%s needs %d fields (%s), got %d",
				model.Name, len(model.Fields), strings.Join(model.Fields, ","), len(parts))
		}
		vals := make([]float64, len(parts))
		for j, p := range parts {
			v, perr := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if perr != nil {
				return 0, 0, 0, fmt.Errorf("field %s: %w", model.Fields[j], perr)
			}
			vals[j] = v
		}
		r, g, b = model.ToRGB(vals)
		return r, g, b, nil
	}
	c, err := raster.ParseColor(s)
	if err != nil {
		return 0, 0, 0, err
	}
	return c.R, c.G, c.B, nil
}

// FormatColorInfo renders a color's representation in every registered
// model, one line per model, plus the hex form.
func FormatColorInfo(value string) (string, error) {
	r, g, b, err := ParseColorValue(value)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "hex  #%02x%02x%02x\n", r, g, b)
	for _, m := range colormodel.Models {
		vals := m.FromRGB(r, g, b)
		fmt.Fprintf(&sb, "%-4s", m.Name)
		for i, f := range m.Fields {
			if m == colormodel.RGB {
				fmt.Fprintf(&sb, " %s %.0f", f, vals[i])
			} else {
				fmt.Fprintf(&sb, " %s %.3f", f, vals[i])
			}
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
