package gcode

import (
	"bytes"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/layout"
	"github.com/ByLCY/burin/renderer"
)

// Renderer drives the emitter over a layout result. One value renders one
// run; identical inputs produce byte-identical output.
type Renderer struct {
	Spec      Spec
	MM        bool    // emit the mm unit template instead of inch
	Flatness  float64 // spline flattening tolerance
	Tesselate bool    // flatten even when the device takes curves
	Feed      float64 // used for box outlines
	Speed     float64
	Final     *geom.Point // optional parking position after the last stroke
}

var _ renderer.Renderer = (*Renderer)(nil)

const defaultFlatness = 0.001

// Render emits the full instruction stream for a layout result.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	flatness := r.Flatness
	if flatness <= 0 {
		flatness = defaultFlatness
	}

	var buf bytes.Buffer
	em := newEmitter(&buf, r.Spec, r.MM)
	if err := em.start(); err != nil {
		return nil, err
	}
	for _, box := range result.Boxes {
		if box.Outline {
			if err := em.rect(box.Rect, r.Feed, r.Speed); err != nil {
				return nil, err
			}
		}
		for _, st := range box.Strokes {
			if err := em.stroke(st, flatness, r.Tesselate); err != nil {
				return nil, err
			}
		}
	}
	if err := em.finish(r.Final); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
