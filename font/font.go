// Package font holds the stroke-font repository: immutable glyph outlines
// keyed by rune, with ink and metric measurement for layout. Fonts are
// loaded once (from an SVG font document) and shared read-only by every
// box of a run.
package font

import (
	"errors"
	"fmt"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/pathdata"
)

// ErrMissingGlyph is returned by Lookup when the font has no entry for a
// rune. Callers treat this as non-fatal: the character is skipped and
// contributes no strokes and no advance.
var ErrMissingGlyph = errors.New("missing glyph")

// WidthMode selects how text extent is measured.
type WidthMode int

const (
	// WidthInk measures the bounding box of actually drawn geometry.
	WidthInk WidthMode = iota
	// WidthMetrics sums nominal glyph advances regardless of ink extent.
	WidthMetrics
)

// Glyph is one character outline in font units, y-down with ink above the
// baseline at negative y.
type Glyph struct {
	Rune     rune
	Width    float64 // advance width
	Segments []pathdata.Segment
	Ink      geom.Rect // bounding box of drawn geometry, zero when blank
}

// Font is an immutable character → Glyph mapping plus font-wide metrics.
type Font struct {
	Name       string
	Style      string
	UnitsPerEm float64
	Ascent     float64
	Descent    float64
	CapHeight  float64
	XHeight    float64

	glyphs map[rune]Glyph
}

// New assembles a font from measured glyphs. Used by the SVG reader and by
// tests; the glyph map is copied so the result stays immutable.
func New(name, style string, unitsPerEm, ascent, descent float64, glyphs []Glyph) *Font {
	m := make(map[rune]Glyph, len(glyphs))
	for _, g := range glyphs {
		m[g.Rune] = g
	}
	return &Font{
		Name:       name,
		Style:      style,
		UnitsPerEm: unitsPerEm,
		Ascent:     ascent,
		Descent:    descent,
		glyphs:     m,
	}
}

// Lookup returns the glyph for r, or ErrMissingGlyph.
func (f *Font) Lookup(r rune) (Glyph, error) {
	g, ok := f.glyphs[r]
	if !ok {
		return Glyph{}, fmt.Errorf("%w: %q", ErrMissingGlyph, r)
	}
	return g, nil
}

// Len returns the number of glyphs in the font.
func (f *Font) Len() int { return len(f.glyphs) }

// TextInk returns the union of each glyph's ink box placed at its
// cumulative advance offset. Missing glyphs are skipped and contribute
// neither ink nor advance; blank glyphs (space) advance without ink.
func (f *Font) TextInk(s string) geom.Rect {
	var ink geom.Rect
	x := 0.0
	for _, r := range s {
		g, err := f.Lookup(r)
		if err != nil {
			continue
		}
		if g.Ink != (geom.Rect{}) {
			shifted := geom.Rect{
				Min: geom.Point{X: g.Ink.Min.X + x, Y: g.Ink.Min.Y},
				Max: geom.Point{X: g.Ink.Max.X + x, Y: g.Ink.Max.Y},
			}
			if ink == (geom.Rect{}) {
				ink = shifted
			} else {
				ink = ink.Union(shifted)
			}
		}
		x += g.Width
	}
	return ink
}

// TextWidth measures s in the requested mode. WidthInk and WidthMetrics
// differ for strings heavy on whitespace or punctuation; the caller picks
// one explicitly.
func (f *Font) TextWidth(s string, mode WidthMode) float64 {
	if mode == WidthInk {
		return f.TextInk(s).Width()
	}
	w := 0.0
	for _, r := range s {
		g, err := f.Lookup(r)
		if err != nil {
			continue
		}
		w += g.Width
	}
	return w
}

// MeasureInk computes the ink bounds of a segment list, flattening curves
// at the given tolerance so curve extrema are covered.
func MeasureInk(segs []pathdata.Segment, tolerance float64) geom.Rect {
	var ink geom.Rect
	var cur geom.Point
	for _, seg := range segs {
		switch seg.Op {
		case pathdata.OpMove:
			cur = seg.Pts[0]
		case pathdata.OpLine, pathdata.OpClose:
			ink = ink.ExtendPoint(cur)
			ink = ink.ExtendPoint(seg.Pts[0])
			cur = seg.Pts[0]
		case pathdata.OpCurve:
			ink = ink.ExtendPoint(cur)
			s := geom.Spline{A: cur, B: seg.Pts[0], C: seg.Pts[1], D: seg.Pts[2]}
			for _, p := range s.Flatten(tolerance, nil) {
				ink = ink.ExtendPoint(p)
			}
			cur = seg.Pts[2]
		}
	}
	return ink
}
