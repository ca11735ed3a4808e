package pathdata

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/burin/geom"
)

var (
	pathLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n,]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Command", Pattern: `[A-Za-z]`},
	})

	pathParser = participle.MustBuild[path](
		participle.Lexer(pathLexer),
		participle.Elide("Whitespace"),
	)
)

// path is the raw AST: a flat command list, arguments still ungrouped.
type path struct {
	Commands []*command `parser:"@@*"`
}

type command struct {
	Pos    lexer.Position `parser:""`
	Letter string         `parser:"@Command"`
	Args   []argument     `parser:"@Number*"`
}

// argument captures one numeric token.
type argument float64

// Capture implements participle.Capture.
func (a *argument) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("numeric argument capture requires value")
	}
	f, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return err
	}
	*a = argument(f)
	return nil
}

// Op identifies one drawing operation of a parsed path.
type Op int

const (
	OpMove  Op = iota // start a new subpath at Pts[0]
	OpLine            // straight segment to Pts[0]
	OpCurve           // cubic segment via Pts[0], Pts[1] to Pts[2]
	OpClose           // line back to the subpath start Pts[0]
)

// Segment is one absolute drawing operation. Quadratic curves are elevated
// to cubics during parsing, so OpCurve is the only curve kind.
type Segment struct {
	Op  Op
	Pts [3]geom.Point
}

// Move builds an OpMove segment.
func Move(p geom.Point) Segment { return Segment{Op: OpMove, Pts: [3]geom.Point{p}} }

// Line builds an OpLine segment.
func Line(p geom.Point) Segment { return Segment{Op: OpLine, Pts: [3]geom.Point{p}} }

// Curve builds an OpCurve segment.
func Curve(c1, c2, end geom.Point) Segment {
	return Segment{Op: OpCurve, Pts: [3]geom.Point{c1, c2, end}}
}

// Parse converts SVG path data (the `d` attribute) into a sequence of
// absolute segments. Supported commands: M/m, L/l, H/h, V/v, C/c, Q/q,
// Z/z, with implicit command repetition per the SVG specification.
func Parse(data string) ([]Segment, error) {
	ast, err := pathParser.ParseString("", data)
	if err != nil {
		return nil, fmt.Errorf("path data: %w", err)
	}

	c := converter{}
	for _, cmd := range ast.Commands {
		if err := c.command(cmd); err != nil {
			return nil, err
		}
	}
	return c.segs, nil
}

// converter tracks the current and subpath-start positions while turning
// raw commands into absolute segments.
type converter struct {
	segs  []Segment
	cur   geom.Point
	start geom.Point
}

// arity of one argument group per command letter.
var arity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'Q': 4, 'Z': 0,
}

func (c *converter) command(cmd *command) error {
	letter := cmd.Letter[0]
	upper := letter
	relative := letter >= 'a'
	if relative {
		upper = letter - 'a' + 'A'
	}
	n, ok := arity[upper]
	if !ok {
		return fmt.Errorf("%s: unsupported path command %q", cmd.Pos, cmd.Letter)
	}
	if n == 0 {
		if len(cmd.Args) != 0 {
			return fmt.Errorf("%s: %q takes no arguments", cmd.Pos, cmd.Letter)
		}
		c.close()
		return nil
	}
	if len(cmd.Args) == 0 || len(cmd.Args)%n != 0 {
		return fmt.Errorf("%s: %q needs groups of %d arguments, got %d",
			cmd.Pos, cmd.Letter, n, len(cmd.Args))
	}

	for i := 0; i < len(cmd.Args); i += n {
		args := make([]float64, n)
		for j := 0; j < n; j++ {
			args[j] = float64(cmd.Args[i+j])
		}
		op := upper
		// An implicit repetition of M is a line-to.
		if upper == 'M' && i > 0 {
			op = 'L'
		}
		c.group(op, relative, args)
	}
	return nil
}

func (c *converter) group(op byte, relative bool, args []float64) {
	abs := func(x, y float64) geom.Point {
		if relative {
			return geom.Point{X: c.cur.X + x, Y: c.cur.Y + y}
		}
		return geom.Point{X: x, Y: y}
	}

	switch op {
	case 'M':
		p := abs(args[0], args[1])
		c.segs = append(c.segs, Move(p))
		c.cur = p
		c.start = p
	case 'L':
		p := abs(args[0], args[1])
		c.segs = append(c.segs, Line(p))
		c.cur = p
	case 'H':
		p := geom.Point{X: args[0], Y: c.cur.Y}
		if relative {
			p.X += c.cur.X
		}
		c.segs = append(c.segs, Line(p))
		c.cur = p
	case 'V':
		p := geom.Point{X: c.cur.X, Y: args[0]}
		if relative {
			p.Y += c.cur.Y
		}
		c.segs = append(c.segs, Line(p))
		c.cur = p
	case 'C':
		c1 := abs(args[0], args[1])
		c2 := abs(args[2], args[3])
		end := abs(args[4], args[5])
		c.segs = append(c.segs, Curve(c1, c2, end))
		c.cur = end
	case 'Q':
		q := abs(args[0], args[1])
		end := abs(args[2], args[3])
		s := geom.Quadratic(c.cur, q, end)
		c.segs = append(c.segs, Curve(s.B, s.C, s.D))
		c.cur = end
	}
}

func (c *converter) close() {
	c.segs = append(c.segs, Segment{Op: OpClose, Pts: [3]geom.Point{c.start}})
	c.cur = c.start
}
