package preview

import (
	"strings"
	"testing"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/layout"
	"github.com/ByLCY/burin/pathdata"
)

func TestRenderProducesSVG(t *testing.T) {
	segs, err := pathdata.Parse("M1 1 L3 1 C3 2 2 2 1 1 Z")
	if err != nil {
		t.Fatal(err)
	}
	res := &layout.Result{Boxes: []layout.PlacedBox{{
		Rect:    geom.XYWH(0, 0, 4, 3),
		Outline: true,
		Strokes: []layout.Stroke{{Segments: segs}},
	}}}
	out, err := (&Renderer{}).Render(res)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, "<svg") {
		t.Fatalf("输出不是 SVG: %q", s[:min(len(s), 80)])
	}
}

func TestRenderEmptyResult(t *testing.T) {
	if _, err := (&Renderer{}).Render(&layout.Result{}); err == nil {
		t.Fatal("空结果应当报错")
	}
}
