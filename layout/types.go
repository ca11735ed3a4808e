// Package layout 负责把内容（文本行或矢量笔画）装进目标盒子：
// 生成盒子序列、逐盒分配内容、按统一缩放与对齐求出变换矩阵，
// 输出可直接交给渲染后端的笔画集合。
package layout

import (
	"strconv"
	"strings"

	"github.com/ByLCY/burin/geom"
	"github.com/ByLCY/burin/pathdata"
)

// Stroke 是一段待输出的笔画路径：段列表（直线与三次曲线，含抬笔
// Move），以及驱动设备的进给与转速参数。文本内容没有颜色，矢量内容
// 的颜色来自 SVG 描边。
type Stroke struct {
	Segments []pathdata.Segment
	Color    string
	Feed     float64
	Speed    float64
}

// PlacedBox 是布局结果中的一个盒子：目标矩形、是否描绘外框，以及
// 已经变换到盒内坐标的笔画。内容不足的盒子 Strokes 为空。
type PlacedBox struct {
	Rect    geom.Rect
	Outline bool
	Strokes []Stroke
}

// Result 是布局阶段的最终产物，渲染后端按盒子顺序输出。
type Result struct {
	Boxes []PlacedBox
}

// Item 是一个盒子的内容：文本行或一组已解析的矢量笔画。
type Item struct {
	Text    string
	Strokes []Stroke

	vector bool
}

// TextItem 构造一个文本内容项。
func TextItem(s string) Item { return Item{Text: s} }

// VectorItem 把一组矢量笔画作为单个内容项装进一个盒子。
func VectorItem(strokes []Stroke) Item {
	return Item{Strokes: strokes, vector: true}
}

// NumberItems 生成递增数字序列 start, start+1, … 共 n 项。
func NumberItems(start int64, n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, TextItem(strconv.FormatInt(start+int64(i), 10)))
	}
	return items
}

// TextItems 把多行文本按行拆成内容项。
func TextItems(text string) []Item {
	var items []Item
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		items = append(items, TextItem(strings.TrimRight(line, "\r")))
	}
	return items
}
