package font

// SVG font reading. An SVG font stores glyph outlines as path data in a
// y-up coordinate system; outlines are negated into the repository's
// y-down convention when loaded, the same flip every consumer of SVG
// fonts has to do.

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/pathdata"
)

// inkToleranceDivisor scales the flattening tolerance used when measuring
// glyph ink at load time: fine enough that curve extrema are captured to
// well below one font unit.
const inkToleranceDivisor = 1e5

// ParseSVGFont reads the first <font> element of an SVG document. The
// document may nest the font inside <defs>; anything else is ignored.
func ParseSVGFont(r io.Reader) (*Font, error) {
	f := &Font{UnitsPerEm: 1000, glyphs: map[rune]Glyph{}}
	dec := xml.NewDecoder(r)
	sawFont := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg font: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "font":
			if sawFont {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("svg font: %w", err)
				}
				continue
			}
			sawFont = true
		case "font-face":
			f.setFace(start.Attr)
		case "glyph":
			if err := f.addGlyph(start.Attr); err != nil {
				return nil, err
			}
		case "missing-glyph":
			// Missing characters are skipped at lookup, never substituted.
		}
	}
	if !sawFont {
		return nil, fmt.Errorf("svg font: no <font> element")
	}
	return f, nil
}

func (f *Font) setFace(attrs []xml.Attr) {
	for _, a := range attrs {
		switch a.Name.Local {
		case "font-family":
			f.Name = a.Value
		case "font-style":
			f.Style = a.Value
		case "units-per-em":
			f.UnitsPerEm = num(a.Value, f.UnitsPerEm)
		case "ascent":
			f.Ascent = num(a.Value, 0)
		case "descent":
			// SVG fonts carry descent as a negative offset.
			d := num(a.Value, 0)
			if d < 0 {
				d = -d
			}
			f.Descent = d
		case "cap-height":
			f.CapHeight = num(a.Value, 0)
		case "x-height":
			f.XHeight = num(a.Value, 0)
		}
	}
}

func (f *Font) addGlyph(attrs []xml.Attr) error {
	var unicode, d string
	width := -1.0
	for _, a := range attrs {
		switch a.Name.Local {
		case "unicode":
			unicode = a.Value
		case "horiz-adv-x":
			width = num(a.Value, -1)
		case "d":
			d = a.Value
		}
	}
	if unicode == "" {
		return nil // ligatures and unnamed glyphs are not used
	}
	runes := []rune(unicode)
	if len(runes) != 1 {
		return nil
	}
	if width < 0 {
		return fmt.Errorf("svg font: glyph %q without horiz-adv-x", unicode)
	}

	var segs []pathdata.Segment
	if d != "" {
		parsed, err := pathdata.Parse(d)
		if err != nil {
			return fmt.Errorf("svg font: glyph %q: %w", unicode, err)
		}
		segs = flipY(parsed)
	}

	f.glyphs[runes[0]] = Glyph{
		Rune:     runes[0],
		Width:    width,
		Segments: segs,
		Ink:      MeasureInk(segs, f.UnitsPerEm/inkToleranceDivisor),
	}
	return nil
}

// flipY converts y-up SVG glyph space to the internal y-down convention.
func flipY(segs []pathdata.Segment) []pathdata.Segment {
	out := make([]pathdata.Segment, len(segs))
	for i, s := range segs {
		for j := range s.Pts {
			s.Pts[j] = geom.Point{X: s.Pts[j].X, Y: -s.Pts[j].Y}
		}
		out[i] = s
	}
	return out
}

func num(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}
