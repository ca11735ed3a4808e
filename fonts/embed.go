package fonts

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"
)

//go:embed *.svg
var fontFS embed.FS

// DefaultName is the font used when a run does not name one.
const DefaultName = "burin-sans.svg"

// Open returns a reader for a built-in font. path may be written as
// "embed:burin-sans.svg" or plain "burin-sans.svg".
func Open(path string) (io.Reader, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, err := fontFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, err)
	}
	return bytes.NewReader(data), nil
}
