package raster

import (
	"fmt"
	"image"
	"strings"
)

// AppliedOp is one history entry: a registry command and the args it ran
// with.
type AppliedOp struct {
	Name string
	Args []string
}

func (op AppliedOp) String() string {
	if len(op.Args) == 0 {
		return op.Name
	}
	return op.Name + " " + strings.Join(op.Args, " ")
}

// Session is the working state of one interactive run: the loaded path and
// format, the buffer as originally loaded, the source buffer the next
// transform reads, and the destination buffer the last transform wrote.
// There is no package-level current image; every consumer goes through a
// Session. Applying a command reads Src, writes Dst, then promotes Dst to
// Src so commands compose as a pipeline; Orig stays untouched for
// before/after comparison.
type Session struct {
	Path    string
	Format  string
	Orig    *image.NRGBA
	Src     *image.NRGBA
	Dst     *image.NRGBA
	Proc    Processor
	History []AppliedOp
}

// NewSession returns an empty session running on p. nil selects the pure
// engine.
func NewSession(p Processor) *Session {
	if p == nil {
		p = Pure{}
	}
	return &Session{Proc: p}
}

// SetImage installs img as the session's working image and clears the
// history. The buffer shape is validated before anything is replaced.
func (s *Session) SetImage(img image.Image, path, format string) error {
	src := ToNRGBA(img)
	if err := ValidateShape(src); err != nil {
		return err
	}
	s.Path = path
	s.Format = format
	s.Orig = src
	s.Src = src
	s.Dst = src
	s.History = s.History[:0]
	return nil
}

// Loaded reports whether the session has a working image.
func (s *Session) Loaded() bool { return s.Src != nil }

// Apply runs a registry command against the session's source buffer. For
// transforms the output becomes both the destination and the next source,
// and the command is recorded in the history. Display commands (histogram,
// identify) leave the buffers and history untouched; their output, when any,
// is returned for preview only. The returned note is informational and may
// be empty.
func (s *Session) Apply(name string, args []string) (*image.NRGBA, string, error) {
	if s.Src == nil {
		return nil, "", fmt.Errorf("no image loaded")
	}
	img, note, err := ApplyCommand(s.Proc, s.Src, name, args)
	if err != nil {
		return nil, "", err
	}
	if img == nil {
		return nil, note, nil
	}
	out := ToNRGBA(img)
	if spec := LookupCommand(name); spec != nil && spec.Display {
		return out, note, nil
	}
	s.Dst = out
	s.Src = out
	s.History = append(s.History, AppliedOp{Name: name, Args: append([]string(nil), args...)})
	return out, note, nil
}
