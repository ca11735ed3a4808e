package renderer

import "github.com/ByLCY/burin/layout"

// Renderer 将布局结果输出为最终字节流，例如 G-code 指令或 SVG 预览。
// Render 返回生成的数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
