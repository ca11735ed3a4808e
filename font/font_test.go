package font

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/burin/fonts"
	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/pathdata"
)

// 测试辅助：两个简单笔画字形，"I" 为一条竖线，"o" 为一段曲线环。
func testFont(t *testing.T) *Font {
	t.Helper()
	iSegs, err := pathdata.Parse("M0 -42 L0 0")
	if err != nil {
		t.Fatal(err)
	}
	oSegs, err := pathdata.Parse("M13 -28 C2 -28 0 -19 0 -14 C0 -9 2 0 13 0 C24 0 26 -9 26 -14 C26 -19 24 -28 13 -28")
	if err != nil {
		t.Fatal(err)
	}
	return New("Test", "Roman", 72, 50, 14, []Glyph{
		{Rune: 'I', Width: 12, Segments: iSegs, Ink: MeasureInk(iSegs, 0.001)},
		{Rune: 'o', Width: 38, Segments: oSegs, Ink: MeasureInk(oSegs, 0.001)},
		{Rune: ' ', Width: 16},
	})
}

func TestLookupMissing(t *testing.T) {
	f := testFont(t)
	if _, err := f.Lookup('Z'); !errors.Is(err, ErrMissingGlyph) {
		t.Fatalf("Lookup('Z') err = %v, want ErrMissingGlyph", err)
	}
	g, err := f.Lookup('I')
	if err != nil || g.Width != 12 {
		t.Fatalf("Lookup('I') = %+v, %v", g, err)
	}
}

func TestTextInkAdvances(t *testing.T) {
	f := testFont(t)
	ink := f.TextInk("Io")
	// "o" 的墨迹从第一个字形的步进 12 开始，宽 26。
	if ink.Min.X != 0 || ink.Max.X != 38 {
		t.Fatalf("ink x span = [%g, %g], want [0, 38]", ink.Min.X, ink.Max.X)
	}
	if ink.Min.Y != -42 || ink.Max.Y != 0 {
		t.Fatalf("ink y span = [%g, %g], want [-42, 0]", ink.Min.Y, ink.Max.Y)
	}
}

func TestWidthModesDiffer(t *testing.T) {
	f := testFont(t)
	// 末尾空格只影响 metrics 模式。
	ink := f.TextWidth("I ", WidthInk)
	metrics := f.TextWidth("I ", WidthMetrics)
	if ink != 0 {
		// "I" 是零宽竖线，墨迹宽度为 0。
		t.Fatalf("ink width = %g, want 0", ink)
	}
	if metrics != 28 {
		t.Fatalf("metrics width = %g, want 28", metrics)
	}
}

func TestTextWidthSkipsMissing(t *testing.T) {
	f := testFont(t)
	if w := f.TextWidth("IZI", WidthMetrics); w != 24 {
		t.Fatalf("width with missing glyph = %g, want 24", w)
	}
}

func TestMeasureInkCurveExtrema(t *testing.T) {
	// 曲线的极值点超出控制点连线，墨迹必须覆盖它。
	segs := []pathdata.Segment{
		pathdata.Move(geom.Point{X: 0, Y: 0}),
		pathdata.Curve(geom.Point{X: 0, Y: -10}, geom.Point{X: 10, Y: -10}, geom.Point{X: 10, Y: 0}),
	}
	ink := MeasureInk(segs, 0.001)
	if ink.Min.Y > -7.4 || ink.Min.Y < -7.6 {
		t.Fatalf("curve apex %g, want about -7.5", ink.Min.Y)
	}
}

func TestParseSVGFontRoundTrip(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg"><defs>
  <font id="t" horiz-adv-x="40">
    <font-face font-family="T" units-per-em="72" ascent="50" descent="-14" cap-height="42"/>
    <missing-glyph horiz-adv-x="40"/>
    <glyph unicode="L" horiz-adv-x="36" d="M0 42 L0 0 M0 0 L24 0"/>
    <glyph unicode=" " horiz-adv-x="16"/>
  </font>
</defs></svg>`
	f, err := ParseSVGFont(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "T" || f.UnitsPerEm != 72 || f.Ascent != 50 || f.Descent != 14 {
		t.Fatalf("face metrics = %+v", f)
	}
	g, err := f.Lookup('L')
	if err != nil {
		t.Fatal(err)
	}
	// SVG 字形为 y 向上，载入后翻转为 y 向下（上方墨迹为负）。
	if g.Ink.Min.Y != -42 || g.Ink.Max.Y != 0 || g.Ink.Max.X != 24 {
		t.Fatalf("glyph ink = %+v", g.Ink)
	}
	if _, err := f.Lookup('\x00'); !errors.Is(err, ErrMissingGlyph) {
		t.Fatal("missing-glyph element must not become a lookup fallback")
	}
}

func TestEmbeddedFontLoads(t *testing.T) {
	r, err := fonts.Open("embed:" + fonts.DefaultName)
	if err != nil {
		t.Fatal(err)
	}
	f, err := ParseSVGFont(r)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() < 90 {
		t.Fatalf("embedded font has %d glyphs, want full printable ASCII", f.Len())
	}
	if f.CapHeight != 42 {
		t.Fatalf("cap height = %g, want 42", f.CapHeight)
	}
	for _, r := range "0123456789 ABCXYZabcxyz.-" {
		if _, err := f.Lookup(r); err != nil {
			t.Errorf("embedded font missing %q", r)
		}
	}
}
