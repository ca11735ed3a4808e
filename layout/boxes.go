package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ByLCY/burin/geom"
)

// Grid 描述参数化盒子网格：从 (X, Y) 开始，按列横向步进 DeltaX，
// 每 Columns 个换行并纵向步进 DeltaY。序列无限长，由内容数量截断。
type Grid struct {
	X, Y    float64
	Width   float64
	Height  float64
	DeltaX  float64
	DeltaY  float64
	Columns int
}

// Rect 返回网格中第 i 个盒子。
func (g Grid) Rect(i int) geom.Rect {
	cols := g.Columns
	if cols < 1 {
		cols = 1
	}
	x := g.X + float64(i%cols)*g.DeltaX
	y := g.Y + float64(i/cols)*g.DeltaY
	return geom.XYWH(x, y, g.Width, g.Height)
}

// Boxes 是盒子序列：显式模板为有限序列，网格为无限序列。
type Boxes struct {
	rects []geom.Rect
	grid  *Grid
}

// TemplateBoxes 用显式矩形列表构造有限盒子序列，保持给定顺序。
func TemplateBoxes(rects []geom.Rect) Boxes { return Boxes{rects: rects} }

// GridBoxes 用参数化网格构造无限盒子序列。
func GridBoxes(g Grid) Boxes { return Boxes{grid: &g} }

// Finite 报告序列是否有限。
func (b Boxes) Finite() bool { return b.grid == nil }

// Len 返回有限序列的盒子数量，无限序列返回 -1。
func (b Boxes) Len() int {
	if b.grid != nil {
		return -1
	}
	return len(b.rects)
}

// Rect 返回第 i 个盒子。有限序列越界属于调用方错误。
func (b Boxes) Rect(i int) geom.Rect {
	if b.grid != nil {
		return b.grid.Rect(i)
	}
	return b.rects[i]
}

// Template 是模板文件的解析结果：显式盒子，外加覆盖运行选项的其余
// 键（由命令行层解释）。
type Template struct {
	Rects     []geom.Rect
	Overrides map[string]json.RawMessage
}

// LoadTemplate 读取 JSON 模板。裸数组形式只给出盒子：
//
//	[[x, y, w, h], …]
//
// 对象形式的 "rects" 键给出盒子，其余键覆盖同名运行选项。
func LoadTemplate(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取模板失败: %w", err)
	}
	data = bytes.TrimSpace(data)

	if bytes.HasPrefix(data, []byte("[")) {
		rects, err := parseRects(data)
		if err != nil {
			return nil, err
		}
		return &Template{Rects: rects}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("模板解析失败: %w", err)
	}
	tmpl := &Template{Overrides: obj}
	if raw, ok := obj["rects"]; ok {
		rects, err := parseRects(raw)
		if err != nil {
			return nil, err
		}
		tmpl.Rects = rects
		delete(obj, "rects")
	}
	return tmpl, nil
}

func parseRects(data []byte) ([]geom.Rect, error) {
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("模板 rects 解析失败: %w", err)
	}
	rects := make([]geom.Rect, len(raw))
	for i, e := range raw {
		if len(e) != 4 {
			return nil, fmt.Errorf("模板 rects 第 %d 项需要 4 个数值，得到 %d 个", i, len(e))
		}
		rects[i] = geom.XYWH(e[0], e[1], e[2], e[3])
	}
	return rects, nil
}
