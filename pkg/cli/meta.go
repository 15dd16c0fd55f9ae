package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeOddInt ParamType = "odd_int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeEnum   ParamType = "enum"
	ParamTypeString ParamType = "string"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

/*
Package-level constraint tables.

The registry in pkg/raster describes each argument by name and type only;
the numeric bounds and enum vocabularies live here so prompting and
validation can reject bad input before the engine ever runs. Extend these
maps when a new command introduces a constrained parameter.
*/

var (
	enumOptionsByParam = map[string][]string{
		"op":      raster.MorphOps,
		"mode":    raster.EqualizeModes,
		"channel": raster.HistogramChannels,
	}

	paramMin = map[string]float64{
		"value":     0,
		"radius":    0,
		"blockSize": 1,
	}

	paramMax = map[string]float64{
		"value": 255,
	}
)

// GenerateTooltip produces a help string from a raster.CommandSpec.
func GenerateTooltip(c raster.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" — no parameters")
		return sb.String()
	}
	sb.WriteString(" — parameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		line := fmt.Sprintf("- %s (%s, %s)", a.Name, a.Type, req)
		sb.WriteString(line)
		if a.Description != "" {
			sb.WriteString(" — " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a raster.CommandSpec.
func GenerateValidationRules(c raster.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "odd_int":
			t = ParamTypeOddInt
		case "float":
			t = ParamTypeFloat
		case "enum":
			t = ParamTypeEnum
		default:
			t = ParamTypeString
		}
		r := ValidationRule{Type: t, Required: a.Required, Hint: a.Description, Example: a.Default}
		if t == ParamTypeEnum {
			r.EnumOptions = enumOptionsByParam[a.Name]
		}
		if min, ok := paramMin[a.Name]; ok {
			v := min
			r.Min = &v
		}
		if max, ok := paramMax[a.Name]; ok {
			v := max
			r.Max = &v
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes the command registry for help and validation lookups.
type MetaStore struct {
	Commands []raster.CommandSpec
	byName   map[string]raster.CommandSpec
}

// NewMetaStore builds a MetaStore from a raster.CommandSpec list.
func NewMetaStore(cmds []raster.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]raster.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// Lookup returns the registry entry for name.
func (m *MetaStore) Lookup(name string) (raster.CommandSpec, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs validates raw argument strings against the command's
// metadata and returns them in canonical textual form, ordered to match the
// registry's parameter list. Optional parameters left empty stay empty; the
// engine applies its own defaults.
func (m *MetaStore) NormalizeArgs(cmdName string, args []string) ([]string, error) {
	c, ok := m.byName[cmdName]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			out[i] = ""
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt, ParamTypeOddInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			if vr.Min != nil && float64(v) < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %d < min %v", a.Name, v, *vr.Min)
			}
			if vr.Max != nil && float64(v) > *vr.Max {
				return nil, fmt.Errorf("parameter %s: %d > max %v", a.Name, v, *vr.Max)
			}
			if vr.Type == ParamTypeOddInt && v%2 == 0 {
				return nil, fmt.Errorf("parameter %s: must be odd, got %d", a.Name, v)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			if vr.Min != nil && f < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %v < min %v", a.Name, f, *vr.Min)
			}
			if vr.Max != nil && f > *vr.Max {
				return nil, fmt.Errorf("parameter %s: %v > max %v", a.Name, f, *vr.Max)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypeEnum:
			canon, ok := matchEnum(vr.EnumOptions, raw)
			if !ok {
				return nil, fmt.Errorf("parameter %s: %q is not one of %s", a.Name, raw, strings.Join(vr.EnumOptions, "|"))
			}
			out[i] = canon
		case ParamTypeString:
			out[i] = raw
		default:
			return nil, fmt.Errorf("parameter %s: unsupported param type %q", a.Name, vr.Type)
		}
	}
	return out, nil
}

// matchEnum resolves val against options case-insensitively and returns the
// canonical spelling.
func matchEnum(options []string, val string) (string, bool) {
	for _, o := range options {
		if strings.EqualFold(o, val) {
			return o, true
		}
	}
	return "", false
}
