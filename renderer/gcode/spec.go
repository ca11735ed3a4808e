// Package gcode renders layout results as a sequential stream of device
// motion instructions. The instruction formats come from a device spec
// document: printf-style templates plus capability flags, validated once
// at load so a malformed template is a configuration error rather than a
// surprise halfway through a cut.
package gcode

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Spec describes one device: instruction templates, capability flags and
// default setting values. Immutable once validated.
type Spec struct {
	Start         string   `json:"start"`
	Stop          string   `json:"stop"`
	Inch          string   `json:"inch"`
	MM            string   `json:"mm"`
	Settings      string   `json:"settings"`
	SettingValues []string `json:"setting-values"`
	Move          string   `json:"move"`
	Draw          string   `json:"draw"`
	Curve         string   `json:"curve"`
	ZMove         string   `json:"z-move"`
	ZUp           float64  `json:"z-up"`
	ZDown         float64  `json:"z-down"`

	Feed    flexBool `json:"feed"`
	Speed   flexBool `json:"speed"`
	ZAxis   flexBool `json:"z-axis"`
	YInvert flexBool `json:"y-invert"`
}

// flexBool accepts both JSON booleans and the string forms "true"/"false"
// found in older device files.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`:
		*b = true
	case "false", `"false"`:
		*b = false
	default:
		return fmt.Errorf("布尔值 %s 无法解析", data)
	}
	return nil
}

func (b flexBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// DefaultSpec returns the stock G-code device: absolute positioning, XY
// plane, feed on draw moves, y axis inverted relative to the y-down
// layout convention.
func DefaultSpec() Spec {
	return Spec{
		Start:   "G90\nG17\n",
		Stop:    "M30\n",
		Inch:    "G20\n",
		MM:      "G21\n",
		Move:    "G00 X%f Y%f\n",
		Draw:    "G01 X%f Y%f F%f\n",
		Feed:    true,
		YInvert: true,
	}
}

// LoadSpec reads a device document, overlaying its keys on the default
// spec, and validates the result.
func LoadSpec(r io.Reader) (Spec, error) {
	spec := DefaultSpec()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&spec); err != nil {
		return Spec{}, fmt.Errorf("设备配置解析失败: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// ApplySettings overrides the device's default setting values positionally
// from a comma-separated list (the -S option).
func (s *Spec) ApplySettings(values string) error {
	reader := csv.NewReader(strings.NewReader(values))
	row, err := reader.Read()
	if err != nil {
		return fmt.Errorf("设置值 %q 解析失败: %w", values, err)
	}
	if len(row) > len(s.SettingValues) {
		return fmt.Errorf("设置值数量 %d 超出设备定义的 %d 个", len(row), len(s.SettingValues))
	}
	vals := append([]string(nil), s.SettingValues...)
	copy(vals, row)
	s.SettingValues = vals
	return nil
}

// extraArity returns the argument count of the draw and curve templates
// beyond their coordinates: the feed and speed flags each add one.
func (s *Spec) extraArity() int {
	n := 0
	if s.Feed {
		n++
	}
	if s.Speed {
		n++
	}
	return n
}

// Validate checks every template's placeholder count against the declared
// capability flags. Run before any output is produced.
func (s *Spec) Validate() error {
	check := func(name, tpl string, want int) error {
		if got := countVerbs(tpl); got != want {
			return fmt.Errorf("模板 %s 需要 %d 个占位符，实际 %d 个: %q", name, want, got, tpl)
		}
		return nil
	}
	if err := check("move", s.Move, 2); err != nil {
		return err
	}
	if err := check("draw", s.Draw, 2+s.extraArity()); err != nil {
		return err
	}
	if s.Curve != "" {
		if err := check("curve", s.Curve, 6+s.extraArity()); err != nil {
			return err
		}
	}
	if s.ZAxis {
		if s.ZMove == "" {
			return fmt.Errorf("设备声明 z-axis 但缺少 z-move 模板")
		}
		if err := check("z-move", s.ZMove, 1); err != nil {
			return err
		}
	}
	if s.Settings != "" {
		if err := check("settings", s.Settings, len(s.SettingValues)); err != nil {
			return err
		}
	}
	return nil
}

// countVerbs counts printf placeholders in a template, ignoring the
// escaped form %%.
func countVerbs(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
