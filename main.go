package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/burin/font"
	"github.com/ByLCY/burin/fonts"
	"github.com/ByLCY/burin/layout"
	"github.com/ByLCY/burin/renderer"
	"github.com/ByLCY/burin/renderer/gcode"
	"github.com/ByLCY/burin/renderer/preview"
	"github.com/ByLCY/burin/svgsource"
)

// dirList 允许 -config-dir 重复出现，按给定顺序搜索。
type dirList []string

func (d *dirList) String() string { return strings.Join(*d, string(os.PathListSeparator)) }

func (d *dirList) Set(v string) error {
	*d = append(*d, v)
	return nil
}

// openConfig 在当前目录与各配置目录中依次查找相对路径的配置文件。
func openConfig(name string, dirs dirList) (io.ReadCloser, error) {
	if filepath.IsAbs(name) {
		return os.Open(name)
	}
	for _, dir := range append(dirList{"."}, dirs...) {
		f, err := os.Open(filepath.Join(dir, name))
		if err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("在配置目录中找不到 %s", name)
}

func main() {
	var configDirs dirList
	inch := flag.Bool("inch", false, "使用英寸单位")
	mm := flag.Bool("mm", false, "使用毫米单位")
	flatness := flag.Float64("flatness", 0.001, "样条展平容差")
	tesselate := flag.Bool("tesselate", false, "即使设备支持曲线也强制展平")
	feed := flag.Float64("feed", 100, "进给速率")
	speed := flag.Float64("speed", 100, "主轴转速")
	device := flag.String("device", "", "设备配置文件")
	settings := flag.String("settings", "", "设备设置值（逗号分隔，按位置覆盖）")
	output := flag.String("output", "-", "输出文件名，- 表示标准输出")
	flag.Var(&configDirs, "config-dir", "配置文件搜索目录（可重复）")
	fontName := flag.String("font", "embed:"+fonts.DefaultName, "SVG 笔画字体文件")
	template := flag.String("template", "", "盒子模板文件")
	rect := flag.Bool("rect", false, "描绘每个盒子的外框")
	oblique := flag.Bool("oblique", false, "使用剪切变换绘制斜体")
	shear := flag.Float64("shear", 0.1, "斜体剪切量")
	border := flag.Float64("border", 0, "盒内边框宽度")
	align := flag.String("align", "center", "水平对齐方式 left/center/right")
	fontMetrics := flag.Bool("font-metrics", false, "用字体全局度量代替墨迹测量")
	startX := flag.Float64("x", 0, "首个盒子的 x 坐标")
	startY := flag.Float64("y", 0, "首个盒子的 y 坐标")
	boxWidth := flag.Float64("w", 4, "盒子宽度")
	boxHeight := flag.Float64("height", 1, "盒子高度")
	deltaX := flag.Float64("X", 4, "相邻列的 x 步进")
	deltaY := flag.Float64("Y", 1, "相邻行的 y 步进")
	columns := flag.Int("columns", 1, "每行盒子数")
	value := flag.Int64("value", 0, "数字序列起始值")
	number := flag.Int("number", 1, "数字序列长度")
	text := flag.String("text", "", "要绘制的文本（可多行）")
	params := flag.String("params", "", "颜色参数文件（SVG 模式）")
	svgMode := flag.Bool("svg", false, "输入为 SVG 矢量文件")
	previewOut := flag.Bool("preview", false, "输出 SVG 预览而非设备指令")
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	// 模板对象形式的其余键覆盖未在命令行显式给出的选项。
	var tmpl *layout.Template
	if *template != "" {
		f, err := openConfig(*template, configDirs)
		if err != nil {
			log.Fatalf("打开模板失败: %v", err)
		}
		tmpl, err = layout.LoadTemplate(f)
		f.Close()
		if err != nil {
			log.Fatalf("加载模板失败: %v", err)
		}
		ov := func(key string, set string, dst any) {
			raw, ok := tmpl.Overrides[key]
			if !ok || explicit[set] {
				return
			}
			if err := json.Unmarshal(raw, dst); err != nil {
				log.Fatalf("模板键 %s 解析失败: %v", key, err)
			}
		}
		ov("font", "font", fontName)
		ov("border", "border", border)
		ov("align", "align", align)
		ov("oblique", "oblique", oblique)
		ov("shear", "shear", shear)
		ov("font-metrics", "font-metrics", fontMetrics)
		ov("feed", "feed", feed)
		ov("speed", "speed", speed)
		ov("rect", "rect", rect)
		ov("mm", "mm", mm)
		ov("inch", "inch", inch)
	}

	alignMode, err := layout.ParseAlign(*align)
	if err != nil {
		log.Fatalf("%v", err)
	}

	spec := gcode.DefaultSpec()
	if *device != "" {
		f, err := openConfig(*device, configDirs)
		if err != nil {
			log.Fatalf("打开设备配置失败: %v", err)
		}
		spec, err = gcode.LoadSpec(f)
		f.Close()
		if err != nil {
			log.Fatalf("加载设备配置失败: %v", err)
		}
	}
	if *settings != "" {
		if err := spec.ApplySettings(*settings); err != nil {
			log.Fatalf("应用设备设置失败: %v", err)
		}
	}

	opts := layout.Options{
		Border:      *border,
		Align:       alignMode,
		Oblique:     *oblique,
		Shear:       *shear,
		FontMetrics: *fontMetrics,
		DrawBoxes:   *rect,
		Feed:        *feed,
		Speed:       *speed,
	}

	var boxes layout.Boxes
	if tmpl != nil && tmpl.Rects != nil {
		boxes = layout.TemplateBoxes(tmpl.Rects)
	} else {
		boxes = layout.GridBoxes(layout.Grid{
			X: *startX, Y: *startY,
			Width: *boxWidth, Height: *boxHeight,
			DeltaX: *deltaX, DeltaY: *deltaY,
			Columns: *columns,
		})
	}

	var items []layout.Item
	if *svgMode {
		items = vectorItems(flag.Args(), *params, *feed, *speed, configDirs)
	} else {
		f, err := loadFont(*fontName, configDirs)
		if err != nil {
			log.Fatalf("加载字体失败: %v", err)
		}
		opts.Font = f
		items = textItems(*text, flag.Args(), *value, *number,
			explicit["value"], boxes)
	}

	result := layout.Build(boxes, items, opts)

	var backend renderer.Renderer
	if *previewOut {
		backend = &preview.Renderer{}
	} else {
		backend = &gcode.Renderer{
			Spec:      spec,
			MM:        *mm,
			Flatness:  *flatness,
			Tesselate: *tesselate,
			Feed:      *feed,
			Speed:     *speed,
		}
	}

	data, err := backend.Render(result)
	if err != nil {
		log.Fatalf("渲染失败: %v", err)
	}

	if *output == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatalf("写入标准输出失败: %v", err)
		}
		return
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("写入 %s 失败: %v", *output, err)
	}
}

// loadFont 读取 SVG 笔画字体：embed: 前缀走内置字体，其余按配置目录
// 解析。
func loadFont(name string, dirs dirList) (*font.Font, error) {
	if strings.HasPrefix(name, "embed:") {
		r, err := fonts.Open(name)
		if err != nil {
			return nil, err
		}
		return font.ParseSVGFont(r)
	}
	f, err := openConfig(name, dirs)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return font.ParseSVGFont(f)
}

// textItems 按优先级组装文本内容：显式 -text 优先，其次输入文件的
// 行，最后数字序列。数字序列在盒子有限时填满盒子，否则受 -number
// 限制。
func textItems(text string, files []string, value int64, number int, haveValue bool, boxes layout.Boxes) []layout.Item {
	if text != "" {
		return layout.TextItems(text)
	}
	if len(files) > 0 {
		var items []layout.Item
		for _, name := range files {
			f, err := os.Open(name)
			if err != nil {
				log.Fatalf("打开输入文件失败: %v", err)
			}
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				items = append(items, layout.TextItem(strings.TrimSpace(sc.Text())))
			}
			if err := sc.Err(); err != nil {
				log.Fatalf("读取 %s 失败: %v", name, err)
			}
			f.Close()
		}
		return items
	}
	if haveValue {
		count := number
		if boxes.Finite() {
			count = boxes.Len()
		}
		return layout.NumberItems(value, count)
	}
	log.Fatalf("没有内容可绘制：需要 -text、输入文件或 -value 之一")
	return nil
}

// vectorItems 把每个输入 SVG 文件解析成一个内容项：按颜色规则解析
// 进给/转速并排序后整体装盒。
func vectorItems(files []string, params string, feed, speed float64, dirs dirList) []layout.Item {
	if len(files) == 0 {
		log.Fatalf("SVG 模式需要至少一个输入文件")
	}
	rules := svgsource.DefaultRules(feed, speed)
	if params != "" {
		f, err := openConfig(params, dirs)
		if err != nil {
			log.Fatalf("打开颜色参数失败: %v", err)
		}
		rules, err = svgsource.LoadRules(f)
		f.Close()
		if err != nil {
			log.Fatalf("加载颜色参数失败: %v", err)
		}
	}

	var items []layout.Item
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("打开 SVG 失败: %v", err)
		}
		paths, err := svgsource.Parse(f)
		f.Close()
		if err != nil {
			log.Fatalf("解析 %s 失败: %v", name, err)
		}
		ordered := rules.Apply(paths)
		strokes := make([]layout.Stroke, 0, len(ordered))
		for _, p := range ordered {
			strokes = append(strokes, layout.Stroke{
				Segments: p.Segments,
				Color:    p.Color,
				Feed:     p.Feed,
				Speed:    p.Speed,
			})
		}
		items = append(items, layout.VectorItem(strokes))
	}
	return items
}
