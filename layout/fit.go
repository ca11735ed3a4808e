package layout

import (
	"fmt"
	"log"
	"math"

	"github.com/ByLCY/burin/font"
	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/pathdata"
)

// Align 是盒内水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign 解析命令行给出的对齐名。
func ParseAlign(s string) (Align, error) {
	switch Align(s) {
	case AlignLeft, AlignCenter, AlignRight:
		return Align(s), nil
	}
	return "", fmt.Errorf("未知的对齐方式 %q（left/center/right）", s)
}

// Options 配置布局阶段：字体、边框、对齐与倾斜参数，以及文本内容
// 使用的进给/转速。
type Options struct {
	Font        *font.Font
	Border      float64
	Align       Align
	Oblique     bool
	Shear       float64
	FontMetrics bool // 用字体全局度量而非实际墨迹测量文本
	DrawBoxes   bool // 在每个盒子外沿描一个矩形
	Feed        float64
	Speed       float64
}

// Build 把内容项依次装进盒子。盒子有限时多余的内容被丢弃并告警，
// 内容不足的盒子保持空白；盒子无限（网格）时由内容数量截断。
func Build(boxes Boxes, items []Item, opts Options) *Result {
	count := len(items)
	if boxes.Finite() {
		count = boxes.Len()
		if n := len(items); n > count {
			log.Printf("内容 %d 项超出盒子数量 %d，丢弃多余项", n, count)
		}
	}

	res := &Result{Boxes: make([]PlacedBox, 0, count)}
	for i := 0; i < count; i++ {
		pb := PlacedBox{Rect: boxes.Rect(i), Outline: opts.DrawBoxes}
		if i < len(items) {
			if items[i].vector {
				pb.Strokes = fitStrokes(pb.Rect, items[i].Strokes, opts)
			} else {
				pb.Strokes = fitText(pb.Rect, items[i].Text, opts)
			}
		}
		res.Boxes = append(res.Boxes, pb)
	}
	return res
}

// avail 返回去掉边框后的可用尺寸；容不下边框时报告失败。
func avail(box geom.Rect, border float64) (w, h float64, ok bool) {
	w = box.Width() - 2*border
	h = box.Height() - 2*border
	if w < 0 || h < 0 {
		log.Printf("边框 %g 超出盒子 %+v，跳过该盒", border, box)
		return 0, 0, false
	}
	return w, h, true
}

// fitText 把一行文本等比缩放进盒子。垂直方向居中，水平方向按对齐
// 方式放置；倾斜排版先把测得宽度加宽 shear·height 再求缩放，保证
// 剪切后的墨迹仍留在盒内。
func fitText(box geom.Rect, s string, o Options) []Stroke {
	availW, availH, ok := avail(box, o.Border)
	if !ok {
		return nil
	}

	var ascent, descent, textX, textW float64
	if o.FontMetrics {
		ascent, descent = o.Font.Ascent, o.Font.Descent
		textW = o.Font.TextWidth(s, font.WidthMetrics)
	} else {
		ink := o.Font.TextInk(s)
		ascent, descent = -ink.Min.Y, ink.Max.Y
		textX = ink.Min.X
		textW = ink.Width()
	}
	textH := ascent + descent
	if textW <= 0 || textH <= 0 {
		log.Printf("文本 %q 没有可见墨迹，跳过", s)
		return nil
	}
	if o.Oblique {
		textW += textH * o.Shear
	}

	scale := math.Min(availW/textW, availH/textH)
	offY := (availH - textH*scale) / 2
	offX := alignOffset(availW, textW*scale, o.Align)
	offX -= textX * scale

	m := geom.Identity().Translate(box.Min.X+o.Border+offX, box.Min.Y+o.Border+offY)
	if o.Oblique {
		// 剪切把基线以下推向左侧，平移 shear·height 补回盒内。
		m = m.Translate(o.Shear*textH*scale, 0)
		m = m.Shear(-o.Shear, 0)
	}
	m = m.Scale(scale, scale)
	m = m.Translate(0, ascent)

	return transformStrokes(textStrokes(o.Font, s, o), m)
}

// fitStrokes 把一组矢量笔画整体等比缩放进盒子，保持笔画间的相对
// 位置与既定顺序。
func fitStrokes(box geom.Rect, content []Stroke, o Options) []Stroke {
	availW, availH, ok := avail(box, o.Border)
	if !ok {
		return nil
	}

	ink := strokesInk(content)
	w, h := ink.Width(), ink.Height()
	var scale float64
	switch {
	case w <= 0 && h <= 0:
		return nil
	case w <= 0:
		scale = availH / h
	case h <= 0:
		scale = availW / w
	default:
		scale = math.Min(availW/w, availH/h)
	}

	offX := alignOffset(availW, w*scale, o.Align)
	offY := (availH - h*scale) / 2
	m := geom.Identity().
		Translate(box.Min.X+o.Border+offX-ink.Min.X*scale,
			box.Min.Y+o.Border+offY-ink.Min.Y*scale).
		Scale(scale, scale)

	return transformStrokes(copyStrokes(content), m)
}

func alignOffset(avail, used float64, a Align) float64 {
	switch a {
	case AlignLeft:
		return 0
	case AlignRight:
		return avail - used
	default:
		return (avail - used) / 2
	}
}

// strokesInk 计算一组笔画的墨迹包围盒，曲线按足够细的容差展平，
// 覆盖控制点连线之外的极值。
func strokesInk(strokes []Stroke) geom.Rect {
	// 先用端点估出量级，再据此选展平容差。
	var coarse geom.Rect
	for _, st := range strokes {
		for _, seg := range st.Segments {
			coarse = coarse.ExtendPoint(seg.Pts[0])
			if seg.Op == pathdata.OpCurve {
				coarse = coarse.ExtendPoint(seg.Pts[1])
				coarse = coarse.ExtendPoint(seg.Pts[2])
			}
		}
	}
	tol := math.Max(coarse.Width(), coarse.Height()) / 1e5
	if tol <= 0 {
		tol = 1e-6
	}

	var ink geom.Rect
	for _, st := range strokes {
		r := font.MeasureInk(st.Segments, tol)
		if r == (geom.Rect{}) {
			continue
		}
		if ink == (geom.Rect{}) {
			ink = r
		} else {
			ink = ink.Union(r)
		}
	}
	return ink
}

// textStrokes 逐字查字形，按累计步进平移后拼成笔画。缺字告警跳过，
// 不占步进。
func textStrokes(f *font.Font, s string, o Options) []Stroke {
	var strokes []Stroke
	x := 0.0
	for _, r := range s {
		g, err := f.Lookup(r)
		if err != nil {
			log.Printf("字体 %s 缺少字形 %q，跳过", f.Name, r)
			continue
		}
		if len(g.Segments) > 0 {
			segs := make([]pathdata.Segment, len(g.Segments))
			for i, seg := range g.Segments {
				segs[i] = applySegment(seg, geom.Identity().Translate(x, 0))
			}
			strokes = append(strokes, Stroke{Segments: segs, Feed: o.Feed, Speed: o.Speed})
		}
		x += g.Width
	}
	return strokes
}

func copyStrokes(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, st := range strokes {
		out[i] = st
		out[i].Segments = append([]pathdata.Segment(nil), st.Segments...)
	}
	return out
}

func transformStrokes(strokes []Stroke, m geom.Matrix) []Stroke {
	for si := range strokes {
		for i := range strokes[si].Segments {
			strokes[si].Segments[i] = applySegment(strokes[si].Segments[i], m)
		}
	}
	return strokes
}

func applySegment(seg pathdata.Segment, m geom.Matrix) pathdata.Segment {
	seg.Pts[0] = m.Apply(seg.Pts[0])
	if seg.Op == pathdata.OpCurve {
		seg.Pts[1] = m.Apply(seg.Pts[1])
		seg.Pts[2] = m.Apply(seg.Pts[2])
	}
	return seg
}
