// Package raster: authoritative registry of engine commands.
//
// This file mirrors the commands implemented in ApplyCommand in
// pkg/raster/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth. The one exception is colorinfo, which needs no image
// and is resolved by the CLI through pkg/colormodel.

package raster

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "odd_int", "float", "enum", "string", etc.
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
	Display     bool   // output is a display artifact, not a pipeline stage
}

// Enum vocabularies for the registry's enum-typed arguments. Validation
// layers check membership against these; the engine parses the canonical
// spellings.
var (
	MorphOps          = []string{"dilate", "erode"}
	EqualizeModes     = []string{"rgb", "hls-lightness"}
	HistogramChannels = []string{"luma", "rgb"}
)

// Commands is the authoritative list of commands implemented by the engine.
// Keep this synchronized with ApplyCommand in pkg/raster/engine.go.
var Commands = []CommandSpec{
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Project to Rec.601 luminance replicated across R,G,B.",
	},
	{
		Name:        "histogram",
		Args:        []ArgSpec{{"channel", "enum", false, "luma", "series to plot (luma|rgb)"}},
		Usage:       "histogram [channel]",
		Description: "Render the normalized histogram as a chart image.",
		Display:     true,
	},
	{
		Name:        "otsu",
		Args:        []ArgSpec{},
		Usage:       "otsu",
		Description: "Binarize at the Otsu threshold derived from the luminance histogram.",
	},
	{
		Name:        "threshold",
		Args:        []ArgSpec{{"value", "int", true, "", "luma cut in [0,255]; pixels strictly above become white"}},
		Usage:       "threshold <value>",
		Description: "Binarize at a fixed luma threshold.",
	},
	{
		Name:        "adaptiveThreshold",
		Args:        []ArgSpec{{"blockSize", "odd_int", true, "15", "local window side (odd, >= 1)"}, {"c", "float", true, "0", "bias subtracted from the window mean"}},
		Usage:       "adaptiveThreshold <blockSize> <c>",
		Description: "Local mean threshold over an integral image (bilevel output).",
	},
	{
		Name:        "morph",
		Args:        []ArgSpec{{"op", "enum", true, "dilate", "operator (dilate|erode)"}, {"radius", "int", true, "1", "structuring element radius (>= 0)"}},
		Usage:       "morph <op> <radius>",
		Description: "Grayscale morphology with a square structuring element.",
	},
	{
		Name:        "medianFilter",
		Args:        []ArgSpec{{"radius", "int", true, "1", "window radius (>= 0)"}},
		Usage:       "medianFilter <radius>",
		Description: "Per-channel median filter (sliding-window histogram).",
	},
	{
		Name:        "contrastStretch",
		Args:        []ArgSpec{{"low", "float", true, "0", "input level mapped to 0"}, {"high", "float", true, "255", "input level mapped to 255"}},
		Usage:       "contrastStretch <low> <high>",
		Description: "Linear remap of [low,high] to [0,255] per channel.",
	},
	{
		Name:        "equalize",
		Args:        []ArgSpec{{"mode", "enum", false, "rgb", "equalization mode (rgb|hls-lightness)"}},
		Usage:       "equalize [mode]",
		Description: "Histogram equalization, per-channel or HLS-lightness only.",
	},
	{
		Name:        "colorinfo",
		Args:        []ArgSpec{{"value", "string", true, "", "color to inspect: CSS name, #rrggbb, or model:f1,f2,f3 (e.g. hls:0.5,0.4,1)"}},
		Usage:       "colorinfo <value>",
		Description: "Print a color's fields in every registered color model.",
	},
	{
		Name:        "identify",
		Args:        []ArgSpec{},
		Usage:       "identify",
		Description: "Print dimensions, active engine and luma statistics; image unchanged.",
		Display:     true,
	},
}

// LookupCommand returns the registry entry for name, or nil.
func LookupCommand(name string) *CommandSpec {
	for i := range Commands {
		if Commands[i].Name == name {
			return &Commands[i]
		}
	}
	return nil
}
