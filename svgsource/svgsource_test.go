package svgsource

import (
	"strconv"
	"strings"
	"testing"

	"github.com/ByLCY/burin/pathdata"
)

const rulesDoc = `{
  "default": {"order": 0, "feed": 100, "speed": 100},
  "params": [
    {"order": 2, "color": "#ff0000", "feed": 20, "speed": 90, "name": "cut"},
    {"order": 1, "color": "#0000ff", "feed": 80, "speed": 40, "name": "score"}
  ]
}`

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(rulesDoc))
	if err != nil {
		t.Fatal(err)
	}
	if r := rules.Get("#ff0000"); r.Feed != 20 || r.Name != "cut" {
		t.Fatalf("cut rule = %+v", r)
	}
	// 未知颜色回退到默认规则。
	if r := rules.Get("#00ff00"); r.Feed != 100 || r.Color != "default" {
		t.Fatalf("fallback rule = %+v", r)
	}
}

func TestLoadRulesRequiresDefault(t *testing.T) {
	if _, err := LoadRules(strings.NewReader(`{"params": []}`)); err == nil {
		t.Fatal("缺少 default 规则时应当报错")
	}
}

func TestApplyStableOrder(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(rulesDoc))
	if err != nil {
		t.Fatal(err)
	}
	// 文档顺序故意与 order 相反，且包含重复 order 验证稳定性。
	paths := []Path{
		{Color: "#ff0000", Segments: segsAt(t, 1)}, // cut, order 2
		{Color: "#ff0000", Segments: segsAt(t, 2)}, // cut, order 2
		{Color: "#0000ff", Segments: segsAt(t, 3)}, // score, order 1
		{Color: "#00ff00", Segments: segsAt(t, 4)}, // default, order 0
	}
	sorted := rules.Apply(paths)

	wantX := []float64{4, 3, 1, 2}
	for i, p := range sorted {
		if x := p.Segments[0].Pts[0].X; x != wantX[i] {
			t.Errorf("position %d: path at x=%g, want x=%g", i, x, wantX[i])
		}
	}
	if sorted[2].Feed != 20 || sorted[2].Speed != 90 {
		t.Errorf("cut params = %g/%g", sorted[2].Feed, sorted[2].Speed)
	}
}

func segsAt(t *testing.T, x float64) []pathdata.Segment {
	t.Helper()
	xs := strconv.FormatFloat(x, 'g', -1, 64)
	segs, err := pathdata.Parse("M " + xs + " 0 L " + xs + " 1")
	if err != nil {
		t.Fatal(err)
	}
	return segs
}

func TestParseElements(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg">
  <g stroke="#0000ff">
    <path d="M 0 0 L 1 1"/>
    <path d="M 2 0 L 3 1" stroke="#ff0000"/>
  </g>
  <rect x="1" y="1" width="2" height="3" style="fill:none;stroke:#00ff00"/>
  <line x1="0" y1="0" x2="5" y2="5" stroke="#ff0000"/>
  <polyline points="0,0 1,0 1,1" stroke="#ff0000"/>
</svg>`
	paths, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 5 {
		t.Fatalf("parsed %d paths, want 5", len(paths))
	}
	wantColors := []string{"#0000ff", "#ff0000", "#00ff00", "#ff0000", "#ff0000"}
	for i, p := range paths {
		if p.Color != wantColors[i] {
			t.Errorf("path %d color = %q, want %q", i, p.Color, wantColors[i])
		}
	}
	// rect 展开为闭合折线。
	rect := paths[2].Segments
	if len(rect) != 5 || rect[4].Op != pathdata.OpClose {
		t.Fatalf("rect segments = %+v", rect)
	}
	if len(paths[4].Segments) != 3 {
		t.Fatalf("polyline segments = %+v", paths[4].Segments)
	}
}
