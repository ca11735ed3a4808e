package svgsource

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/pathdata"
)

// Path is one drawable element of an SVG document: absolute segments plus
// the stroke color that selects its machining rule. Feed and Speed are
// filled in by Rules.Apply.
type Path struct {
	Segments []pathdata.Segment
	Color    string
	Feed     float64
	Speed    float64

	order int
}

// Parse extracts the drawable elements of an SVG document in document
// order: <path>, <rect>, <line> and <polyline>, each tagged with its
// effective stroke color (own attribute, style property, or the nearest
// enclosing group's).
func Parse(r io.Reader) ([]Path, error) {
	dec := xml.NewDecoder(r)
	var paths []Path
	// Stroke colors inherit through nested <g> elements.
	strokeStack := []string{""}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("SVG 文档解析失败: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			stroke := strokeColor(el.Attr, strokeStack[len(strokeStack)-1])
			strokeStack = append(strokeStack, stroke)

			segs, err := elementSegments(el)
			if err != nil {
				return nil, err
			}
			if segs != nil {
				paths = append(paths, Path{Segments: segs, Color: stroke})
			}
		case xml.EndElement:
			if len(strokeStack) > 1 {
				strokeStack = strokeStack[:len(strokeStack)-1]
			}
		}
	}
	return paths, nil
}

func elementSegments(el xml.StartElement) ([]pathdata.Segment, error) {
	attr := func(name string) (string, bool) {
		for _, a := range el.Attr {
			if a.Name.Local == name {
				return a.Value, true
			}
		}
		return "", false
	}
	f := func(name string) float64 {
		v, _ := attr(name)
		n, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n
	}

	switch el.Name.Local {
	case "path":
		d, ok := attr("d")
		if !ok || d == "" {
			return nil, nil
		}
		segs, err := pathdata.Parse(d)
		if err != nil {
			return nil, fmt.Errorf("path 元素: %w", err)
		}
		return segs, nil
	case "rect":
		x, y, w, h := f("x"), f("y"), f("width"), f("height")
		if w <= 0 || h <= 0 {
			return nil, nil
		}
		return []pathdata.Segment{
			pathdata.Move(geom.Point{X: x, Y: y}),
			pathdata.Line(geom.Point{X: x + w, Y: y}),
			pathdata.Line(geom.Point{X: x + w, Y: y + h}),
			pathdata.Line(geom.Point{X: x, Y: y + h}),
			{Op: pathdata.OpClose, Pts: [3]geom.Point{{X: x, Y: y}}},
		}, nil
	case "line":
		return []pathdata.Segment{
			pathdata.Move(geom.Point{X: f("x1"), Y: f("y1")}),
			pathdata.Line(geom.Point{X: f("x2"), Y: f("y2")}),
		}, nil
	case "polyline":
		pts, ok := attr("points")
		if !ok {
			return nil, nil
		}
		return polylineSegments(pts)
	}
	return nil, nil
}

func polylineSegments(points string) ([]pathdata.Segment, error) {
	fields := strings.FieldsFunc(points, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) < 4 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("polyline 元素坐标数量不合法: %d", len(fields))
	}
	segs := make([]pathdata.Segment, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("polyline 坐标 %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("polyline 坐标 %q: %w", fields[i+1], err)
		}
		p := geom.Point{X: x, Y: y}
		if i == 0 {
			segs = append(segs, pathdata.Move(p))
		} else {
			segs = append(segs, pathdata.Line(p))
		}
	}
	return segs, nil
}

// strokeColor finds the element's stroke color: the stroke attribute wins,
// then a stroke property inside style, then the inherited value.
func strokeColor(attrs []xml.Attr, inherited string) string {
	style := ""
	for _, a := range attrs {
		switch a.Name.Local {
		case "stroke":
			return strings.TrimSpace(a.Value)
		case "style":
			style = a.Value
		}
	}
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == "stroke" {
			return strings.TrimSpace(v)
		}
	}
	return inherited
}
