package gcode

import (
	"fmt"
	"io"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/layout"
	"github.com/ByLCY/burin/pathdata"
)

// emitter is the sequential instruction state machine: Idle → Started →
// Drawing → Finished. It owns the single mutable cursor of a run (pen
// position and pen state); instructions go straight to the writer in the
// order they are produced.
type emitter struct {
	w    io.Writer
	spec Spec
	mm   bool

	state   emitterState
	penDown bool
	cur     geom.Point // current position in layout coordinates
}

type emitterState int

const (
	stateIdle emitterState = iota
	stateStarted
	stateDrawing
	stateFinished
)

func newEmitter(w io.Writer, spec Spec, mm bool) *emitter {
	return &emitter{w: w, spec: spec, mm: mm}
}

// start emits the preamble exactly once: start template, unit template,
// then the settings template when the device defines one.
func (e *emitter) start() error {
	if e.state != stateIdle {
		return fmt.Errorf("start: 状态机已处于 %d", e.state)
	}
	if _, err := io.WriteString(e.w, e.spec.Start); err != nil {
		return err
	}
	unit := e.spec.Inch
	if e.mm {
		unit = e.spec.MM
	}
	if _, err := io.WriteString(e.w, unit); err != nil {
		return err
	}
	if e.spec.Settings != "" && len(e.spec.SettingValues) > 0 {
		args := make([]any, len(e.spec.SettingValues))
		for i, v := range e.spec.SettingValues {
			args[i] = v
		}
		if _, err := fmt.Fprintf(e.w, e.spec.Settings, args...); err != nil {
			return err
		}
	}
	e.state = stateStarted
	return nil
}

// emitY converts a layout y coordinate to device space. Negation happens
// here and nowhere else; the rest of the pipeline stays y-down.
func (e *emitter) emitY(y float64) float64 {
	if e.spec.YInvert {
		y = -y
	}
	if y == 0 {
		y = 0 // normalize -0
	}
	return y
}

func (e *emitter) checkDrawing(op string) error {
	switch e.state {
	case stateIdle:
		return fmt.Errorf("%s: 状态机尚未 start", op)
	case stateFinished:
		return fmt.Errorf("%s: 状态机已经 finish", op)
	}
	e.state = stateDrawing
	return nil
}

// moveTo emits a pen-up reposition. A z-axis device lifts the tool first.
func (e *emitter) moveTo(p geom.Point) error {
	if err := e.checkDrawing("move"); err != nil {
		return err
	}
	if e.penDown {
		if e.spec.ZAxis {
			if _, err := fmt.Fprintf(e.w, e.spec.ZMove, e.spec.ZUp); err != nil {
				return err
			}
		}
		e.penDown = false
	}
	if _, err := fmt.Fprintf(e.w, e.spec.Move, p.X, e.emitY(p.Y)); err != nil {
		return err
	}
	e.cur = p
	return nil
}

// penDownFor lowers the tool before the first draw of a stroke.
func (e *emitter) penDownFor() error {
	if e.penDown {
		return nil
	}
	if e.spec.ZAxis {
		if _, err := fmt.Fprintf(e.w, e.spec.ZMove, e.spec.ZDown); err != nil {
			return err
		}
	}
	e.penDown = true
	return nil
}

func (e *emitter) extra(feed, speed float64) []any {
	var args []any
	if e.spec.Feed {
		args = append(args, feed)
	}
	if e.spec.Speed {
		args = append(args, speed)
	}
	return args
}

// drawTo emits one pen-down line instruction.
func (e *emitter) drawTo(p geom.Point, feed, speed float64) error {
	if err := e.checkDrawing("draw"); err != nil {
		return err
	}
	if err := e.penDownFor(); err != nil {
		return err
	}
	args := append([]any{p.X, e.emitY(p.Y)}, e.extra(feed, speed)...)
	if _, err := fmt.Fprintf(e.w, e.spec.Draw, args...); err != nil {
		return err
	}
	e.cur = p
	return nil
}

// curveTo emits one native curve instruction; callers must have checked
// that the device declares a curve template.
func (e *emitter) curveTo(b, c, d geom.Point, feed, speed float64) error {
	if err := e.checkDrawing("curve"); err != nil {
		return err
	}
	if err := e.penDownFor(); err != nil {
		return err
	}
	args := append([]any{
		b.X, e.emitY(b.Y),
		c.X, e.emitY(c.Y),
		d.X, e.emitY(d.Y),
	}, e.extra(feed, speed)...)
	if _, err := fmt.Fprintf(e.w, e.spec.Curve, args...); err != nil {
		return err
	}
	e.cur = d
	return nil
}

// stroke walks a segment list: moves reposition pen-up, lines and curves
// draw, close draws back to the subpath start. Curves flatten unless the
// device takes them natively and tesselation is not forced.
func (e *emitter) stroke(st layout.Stroke, flatness float64, tesselate bool) error {
	for _, seg := range st.Segments {
		switch seg.Op {
		case pathdata.OpMove:
			if err := e.moveTo(seg.Pts[0]); err != nil {
				return err
			}
		case pathdata.OpLine:
			if err := e.drawTo(seg.Pts[0], st.Feed, st.Speed); err != nil {
				return err
			}
		case pathdata.OpCurve:
			if e.spec.Curve != "" && !tesselate {
				if err := e.curveTo(seg.Pts[0], seg.Pts[1], seg.Pts[2], st.Feed, st.Speed); err != nil {
					return err
				}
				continue
			}
			s := geom.Spline{A: e.cur, B: seg.Pts[0], C: seg.Pts[1], D: seg.Pts[2]}
			for _, p := range s.Flatten(flatness, nil) {
				if err := e.drawTo(p, st.Feed, st.Speed); err != nil {
					return err
				}
			}
		case pathdata.OpClose:
			if e.cur != seg.Pts[0] {
				if err := e.drawTo(seg.Pts[0], st.Feed, st.Speed); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// rect draws a box outline as four pen-down edges.
func (e *emitter) rect(r geom.Rect, feed, speed float64) error {
	if err := e.moveTo(r.Min); err != nil {
		return err
	}
	corners := []geom.Point{
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
		r.Min,
	}
	for _, p := range corners {
		if err := e.drawTo(p, feed, speed); err != nil {
			return err
		}
	}
	return nil
}

// finish emits the optional final-position move and the stop template,
// then refuses all further instructions.
func (e *emitter) finish(final *geom.Point) error {
	if e.state == stateFinished {
		return fmt.Errorf("finish: 状态机已经 finish")
	}
	if e.state == stateIdle {
		return fmt.Errorf("finish: 状态机尚未 start")
	}
	if final != nil {
		if err := e.moveTo(*final); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(e.w, e.spec.Stop); err != nil {
		return err
	}
	e.state = stateFinished
	return nil
}
