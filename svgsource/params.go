// Package svgsource turns SVG drawings into ordered stroke paths for the
// layout engine. Stroke colors select machining parameters through an
// operator-supplied rule document, so one file can mix passes (score then
// cut) without reordering its elements.
package svgsource

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
)

// Rule binds one stroke color to machining parameters. Order is a coarse
// bucket: lower orders run first, equal orders keep document order.
type Rule struct {
	Order int     `json:"order"`
	Color string  `json:"color"`
	Feed  float64 `json:"feed"`
	Speed float64 `json:"speed"`
	Name  string  `json:"name"` // descriptive only
}

// Rules is a color-parameter document: a default rule plus exact-match
// per-color rules. Colors are compared as strings, no fuzzy matching.
type Rules struct {
	Default Rule
	byColor map[string]Rule
}

// ruleDoc is the JSON wire form of a color-parameter document.
type ruleDoc struct {
	Default *Rule  `json:"default"`
	Params  []Rule `json:"params"`
}

// LoadRules reads a color-parameter document.
func LoadRules(r io.Reader) (*Rules, error) {
	var doc ruleDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("颜色参数文件解析失败: %w", err)
	}
	if doc.Default == nil {
		return nil, fmt.Errorf("颜色参数文件缺少 default 规则")
	}
	rules := &Rules{
		Default: *doc.Default,
		byColor: make(map[string]Rule, len(doc.Params)),
	}
	rules.Default.Color = "default"
	for _, p := range doc.Params {
		if p.Color == "" {
			return nil, fmt.Errorf("颜色参数规则 %q 缺少 color", p.Name)
		}
		rules.byColor[p.Color] = p
	}
	return rules, nil
}

// DefaultRules builds a rule set with only a default rule, used when no
// parameter document is supplied: every path gets the run's feed/speed.
func DefaultRules(feed, speed float64) *Rules {
	return &Rules{
		Default: Rule{Color: "default", Feed: feed, Speed: speed},
		byColor: map[string]Rule{},
	}
}

// Get resolves a stroke color. Unknown colors fall back to the default
// rule with a warning.
func (r *Rules) Get(color string) Rule {
	if rule, ok := r.byColor[color]; ok {
		return rule
	}
	if color != "" && len(r.byColor) > 0 {
		log.Printf("未知的描边颜色 %s，使用默认参数", color)
	}
	return r.Default
}

// Apply resolves each path's color against the rules and sorts the result
// by (rule order ascending, encounter order ascending). The sort is
// stable: paths sharing an order bucket keep their document order.
func (r *Rules) Apply(paths []Path) []Path {
	out := make([]Path, len(paths))
	for i, p := range paths {
		rule := r.Get(p.Color)
		p.Feed = rule.Feed
		p.Speed = rule.Speed
		p.order = rule.Order
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}
