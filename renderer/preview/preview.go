// Package preview 把布局结果绘制成 SVG 预览图：盒子外框用浅色描边，
// 笔画用黑色。上机之前先检查布局用。
package preview

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/layout"
	"github.com/ByLCY/burin/pathdata"
	"github.com/ByLCY/burin/renderer"
)

var (
	boxColor    = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	strokeColor = color.RGBA{A: 0xff}
)

// Renderer 通过 github.com/tdewolff/canvas 输出 SVG 预览。
type Renderer struct {
	StrokeWidth float64 // 画笔宽度，<=0 时取画面尺寸的 0.2%
}

var _ renderer.Renderer = (*Renderer)(nil)

// Render 把布局结果画成一张 SVG。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Boxes) == 0 {
		return nil, fmt.Errorf("没有可预览的盒子")
	}

	bounds := contentBounds(result)
	width := bounds.Max.X
	height := bounds.Max.Y
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("预览画面尺寸退化: %g x %g", width, height)
	}

	lineWidth := r.StrokeWidth
	if lineWidth <= 0 {
		lineWidth = 0.002 * max(width, height)
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致：左上角为原点
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeWidth(lineWidth)

	for _, box := range result.Boxes {
		if box.Outline {
			ctx.SetStrokeColor(boxColor)
			ctx.DrawPath(box.Rect.Min.X, box.Rect.Min.Y,
				canvas.Rectangle(box.Rect.Width(), box.Rect.Height()))
		}
		ctx.SetStrokeColor(strokeColor)
		for _, st := range box.Strokes {
			ctx.DrawPath(0, 0, strokePath(st))
		}
	}

	var buf bytes.Buffer
	writer := svg.New(&buf, width, height, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// strokePath 把一条笔画的段列表转成 canvas 路径。
func strokePath(st layout.Stroke) *canvas.Path {
	p := &canvas.Path{}
	for _, seg := range st.Segments {
		switch seg.Op {
		case pathdata.OpMove:
			p.MoveTo(seg.Pts[0].X, seg.Pts[0].Y)
		case pathdata.OpLine:
			p.LineTo(seg.Pts[0].X, seg.Pts[0].Y)
		case pathdata.OpCurve:
			p.CubeTo(seg.Pts[0].X, seg.Pts[0].Y,
				seg.Pts[1].X, seg.Pts[1].Y,
				seg.Pts[2].X, seg.Pts[2].Y)
		case pathdata.OpClose:
			p.Close()
		}
	}
	return p
}

// contentBounds 计算所有盒子与笔画的整体包围盒。
func contentBounds(result *layout.Result) geom.Rect {
	var b geom.Rect
	for _, box := range result.Boxes {
		if box.Rect != (geom.Rect{}) {
			b = b.ExtendPoint(box.Rect.Min)
			b = b.ExtendPoint(box.Rect.Max)
		}
		for _, st := range box.Strokes {
			for _, seg := range st.Segments {
				b = b.ExtendPoint(seg.Pts[0])
				if seg.Op == pathdata.OpCurve {
					b = b.ExtendPoint(seg.Pts[1])
					b = b.ExtendPoint(seg.Pts[2])
				}
			}
		}
	}
	return b
}
