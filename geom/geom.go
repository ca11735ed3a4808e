package geom

// This file defines the primitive geometry types shared by every stage of
// the pipeline: points, rectangles and affine matrices. All coordinates are
// in output units with y growing downwards; the device backend decides what
// to do about machines whose y axis grows upwards.

import "math"

// Point is a position in output units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mid returns the point midway between p and o.
func (p Point) Mid(o Point) Point {
	return Point{p.X + (o.X-p.X)/2, p.Y + (o.Y-p.Y)/2}
}

// DistanceToPointSquared returns the squared distance between p and b.
func (p Point) DistanceToPointSquared(b Point) float64 {
	dx := b.X - p.X
	dy := b.Y - p.Y
	return dx*dx + dy*dy
}

// DistanceToLineSquared returns the squared distance from p to the infinite
// line through p1 and p2. When p1 == p2 the line degenerates and the
// distance to p1 is returned instead.
func (p Point) DistanceToLineSquared(p1, p2 Point) float64 {
	// Normal form AX + BY + C = 0 with
	//   A = y2 - y1, B = x1 - x2, C = y1*x2 - x1*y2
	// distance² = (AX + BY + C)² / (A² + B²)
	a := p2.Y - p1.Y
	b := p1.X - p2.X
	c := p1.Y*p2.X - p1.X*p2.Y

	num := math.Abs(a*p.X + b*p.Y + c)
	den := a*a + b*b
	if den == 0 {
		return p.DistanceToPointSquared(p1)
	}
	return num * num / den
}

// Rect is an axis-aligned rectangle spanning Min (top-left) to Max
// (bottom-right) in the y-down convention.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, w, h float64) Rect {
	return Rect{Point{x, y}, Point{x + w, y + h}}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// IsEmpty reports whether r encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// ExtendPoint grows r to cover p. The zero Rect is treated as empty and
// becomes the degenerate rectangle at p.
func (r Rect) ExtendPoint(p Point) Rect {
	if r == (Rect{}) {
		return Rect{p, p}
	}
	return Rect{
		Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Matrix is a 2x3 affine transform:
//
//	x' = XX*x + YX*y + X0
//	y' = XY*x + YY*y + Y0
type Matrix struct {
	XX, YX, X0 float64
	XY, YY, Y0 float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// Mul composes two transforms: the result applies m first, then o.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		XX: m.XX*o.XX + m.XY*o.YX,
		YX: m.YX*o.XX + m.YY*o.YX,
		XY: m.XX*o.XY + m.XY*o.YY,
		YY: m.YX*o.XY + m.YY*o.YY,
		X0: m.X0*o.XX + m.Y0*o.YX + o.X0,
		Y0: m.X0*o.XY + m.Y0*o.YY + o.Y0,
	}
}

// Translate prepends a translation: the result translates first, then
// applies m.
func (m Matrix) Translate(tx, ty float64) Matrix {
	return Matrix{XX: 1, YY: 1, X0: tx, Y0: ty}.Mul(m)
}

// Scale prepends a scale.
func (m Matrix) Scale(sx, sy float64) Matrix {
	return Matrix{XX: sx, YY: sy}.Mul(m)
}

// Shear prepends a shear: sx skews x by y (italic slant), sy skews y by x.
func (m Matrix) Shear(sx, sy float64) Matrix {
	return Matrix{XX: 1, YY: 1, YX: sx, XY: sy}.Mul(m)
}

// Apply transforms a point by m.
func (m Matrix) Apply(p Point) Point {
	return Point{
		m.XX*p.X + m.YX*p.Y + m.X0,
		m.XY*p.X + m.YY*p.Y + m.Y0,
	}
}
