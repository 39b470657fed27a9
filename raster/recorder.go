package raster

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/sost"
)

// Op identifies a recorded surface call.
type Op uint8

const (
	OpBeginPath Op = iota
	OpMoveTo
	OpLineTo
	OpClosePath
	OpStroke
	OpFill
	OpFillCircle
	OpClear
	OpText
)

func (op Op) String() string {
	switch op {
	case OpBeginPath:
		return "BeginPath"
	case OpMoveTo:
		return "MoveTo"
	case OpLineTo:
		return "LineTo"
	case OpClosePath:
		return "ClosePath"
	case OpStroke:
		return "Stroke"
	case OpFill:
		return "Fill"
	case OpFillCircle:
		return "FillCircle"
	case OpClear:
		return "Clear"
	case OpText:
		return "Text"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Command is a single recorded surface call. Fields not used by Op are zero.
type Command struct {
	Op Op
	// P is the path point, circle center or text anchor.
	P md2.Vec
	// Size is the stroke width or circle radius.
	Size  float64
	Color color.Color
	Text  string
}

func (cmd Command) String() string {
	switch cmd.Op {
	case OpMoveTo, OpLineTo:
		return fmt.Sprintf("%s(%g,%g)", cmd.Op, cmd.P.X, cmd.P.Y)
	case OpFillCircle:
		return fmt.Sprintf("%s(%g,%g r=%g)", cmd.Op, cmd.P.X, cmd.P.Y, cmd.Size)
	case OpStroke:
		return fmt.Sprintf("%s(w=%g)", cmd.Op, cmd.Size)
	case OpText:
		return fmt.Sprintf("%s(%q@%g,%g)", cmd.Op, cmd.Text, cmd.P.X, cmd.P.Y)
	}
	return cmd.Op.String()
}

// Recorder is a [sost.TextSurface] that records every call it receives instead of drawing.
// Recordings can be inspected or replayed onto another surface of the same size.
type Recorder struct {
	width, height int
	Commands      []Command
}

var _ sost.TextSurface = (*Recorder)(nil)

// NewRecorder returns a recorder reporting the given surface size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// Reset discards all recorded commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

// Ops returns the recorded operations in order.
func (r *Recorder) Ops() []Op {
	ops := make([]Op, len(r.Commands))
	for i := range r.Commands {
		ops[i] = r.Commands[i].Op
	}
	return ops
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) BeginPath() { r.add(Command{Op: OpBeginPath}) }

func (r *Recorder) MoveTo(p md2.Vec) { r.add(Command{Op: OpMoveTo, P: p}) }

func (r *Recorder) LineTo(p md2.Vec) { r.add(Command{Op: OpLineTo, P: p}) }

func (r *Recorder) ClosePath() { r.add(Command{Op: OpClosePath}) }

func (r *Recorder) Stroke(c color.Color, width float64) {
	r.add(Command{Op: OpStroke, Size: width, Color: c})
}

func (r *Recorder) Fill(c color.Color) { r.add(Command{Op: OpFill, Color: c}) }

func (r *Recorder) FillCircle(center md2.Vec, radius float64, c color.Color) {
	r.add(Command{Op: OpFillCircle, P: center, Size: radius, Color: c})
}

func (r *Recorder) Clear(c color.Color) { r.add(Command{Op: OpClear, Color: c}) }

func (r *Recorder) DrawText(s string, at md2.Vec, c color.Color) error {
	r.add(Command{Op: OpText, P: at, Color: c, Text: s})
	return nil
}

func (r *Recorder) add(cmd Command) {
	r.Commands = append(r.Commands, cmd)
}

// Replay issues the recorded commands on dst in order. Text commands require dst
// to implement [sost.TextSurface]; failed text commands are skipped and their errors joined.
func (r *Recorder) Replay(dst sost.Surface) error {
	w, h := dst.Size()
	if w != r.width || h != r.height {
		return fmt.Errorf("replay surface size %dx%d does not match recorded %dx%d", w, h, r.width, r.height)
	}
	var errs []error
	for i, cmd := range r.Commands {
		switch cmd.Op {
		case OpBeginPath:
			dst.BeginPath()
		case OpMoveTo:
			dst.MoveTo(cmd.P)
		case OpLineTo:
			dst.LineTo(cmd.P)
		case OpClosePath:
			dst.ClosePath()
		case OpStroke:
			dst.Stroke(cmd.Color, cmd.Size)
		case OpFill:
			dst.Fill(cmd.Color)
		case OpFillCircle:
			dst.FillCircle(cmd.P, cmd.Size, cmd.Color)
		case OpClear:
			dst.Clear(cmd.Color)
		case OpText:
			ts, ok := dst.(sost.TextSurface)
			if !ok {
				errs = append(errs, fmt.Errorf("command %d: surface does not support text", i))
				continue
			}
			if err := ts.DrawText(cmd.Text, cmd.P, cmd.Color); err != nil {
				errs = append(errs, fmt.Errorf("command %d: %w", i, err))
			}
		default:
			errs = append(errs, fmt.Errorf("command %d: unknown op %s", i, cmd.Op))
		}
	}
	return errors.Join(errs...)
}
