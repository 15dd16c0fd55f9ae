package cli

import (
	"strings"
	"testing"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

func newTestStore() *MetaStore {
	return NewMetaStore(raster.Commands)
}

func TestMetaStoreLookup(t *testing.T) {
	store := newTestStore()
	if _, ok := store.Lookup("otsu"); !ok {
		t.Fatalf("otsu missing")
	}
	if _, ok := store.Lookup("sharpen"); ok {
		t.Fatalf("unknown command found")
	}
	if _, _, err := store.GetCommandHelp("nope"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestGenerateTooltipListsParams(t *testing.T) {
	store := newTestStore()
	c, _ := store.Lookup("adaptiveThreshold")
	tip := GenerateTooltip(c)
	if !strings.Contains(tip, "blockSize") || !strings.Contains(tip, "required") {
		t.Fatalf("tooltip missing parameter info: %q", tip)
	}
	c, _ = store.Lookup("otsu")
	if tip = GenerateTooltip(c); !strings.Contains(tip, "no parameters") {
		t.Fatalf("no-arg tooltip = %q", tip)
	}
}

func TestValidationRulesCarryBoundsAndEnums(t *testing.T) {
	store := newTestStore()
	c, _ := store.Lookup("threshold")
	rules := GenerateValidationRules(c)
	r, ok := rules["value"]
	if !ok {
		t.Fatalf("value rule missing")
	}
	if r.Min == nil || *r.Min != 0 || r.Max == nil || *r.Max != 255 {
		t.Fatalf("value bounds = %v/%v", r.Min, r.Max)
	}
	c, _ = store.Lookup("morph")
	rules = GenerateValidationRules(c)
	if opts := rules["op"].EnumOptions; len(opts) != 2 || opts[0] != "dilate" {
		t.Fatalf("op enum options = %v", opts)
	}
}

func TestNormalizeArgsValid(t *testing.T) {
	store := newTestStore()
	args, err := store.NormalizeArgs("adaptiveThreshold", []string{"15", "2.5"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if args[0] != "15" || args[1] != "2.5" {
		t.Fatalf("args = %v", args)
	}
	// enum spellings canonicalize case-insensitively
	args, err = store.NormalizeArgs("morph", []string{"DILATE", "3"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if args[0] != "dilate" {
		t.Fatalf("enum not canonicalized: %v", args)
	}
	// optional args may stay empty; the engine applies defaults
	args, err = store.NormalizeArgs("equalize", nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(args) != 1 || args[0] != "" {
		t.Fatalf("optional arg = %v", args)
	}
	// surrounding whitespace is trimmed
	args, err = store.NormalizeArgs("threshold", []string{" 128 "})
	if err != nil || args[0] != "128" {
		t.Fatalf("trimmed arg = %v, %v", args, err)
	}
}

func TestNormalizeArgsRejects(t *testing.T) {
	store := newTestStore()
	cases := []struct {
		cmd  string
		args []string
	}{
		{"threshold", nil},                           // missing required
		{"threshold", []string{"abc"}},               // not an int
		{"threshold", []string{"256"}},               // above max
		{"threshold", []string{"-1"}},                // below min
		{"threshold", []string{"12.5"}},              // float for int param
		{"adaptiveThreshold", []string{"14", "0"}},   // even blockSize
		{"adaptiveThreshold", []string{"0", "0"}},    // below min
		{"adaptiveThreshold", []string{"15", "two"}}, // bad float
		{"morph", []string{"open", "1"}},             // unknown enum value
		{"morph", []string{"dilate", "-1"}},          // negative radius
		{"medianFilter", []string{"-3"}},             // negative radius
		{"equalize", []string{"lab"}},                // unknown mode
	}
	for _, c := range cases {
		if _, err := store.NormalizeArgs(c.cmd, c.args); err == nil {
			t.Fatalf("%s %v: expected rejection", c.cmd, c.args)
		}
	}
	if _, err := store.NormalizeArgs("bogus", nil); err == nil {
		t.Fatalf("unknown command accepted")
	}
}

func TestNormalizeArgsOddIntAccepted(t *testing.T) {
	store := newTestStore()
	for _, v := range []string{"1", "3", "15", "255"} {
		if _, err := store.NormalizeArgs("adaptiveThreshold", []string{v, "0"}); err != nil {
			t.Fatalf("odd blockSize %s rejected: %v", v, err)
		}
	}
}
