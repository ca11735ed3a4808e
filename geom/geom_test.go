package geom

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMatrixComposeOrder(t *testing.T) {
	// Later calls in a chain prepend: the scale added last applies
	// before the translation.
	m := Identity().Translate(10, 0).Scale(2, 2)
	p := m.Apply(Point{1, 1})
	if !almost(p.X, 12) || !almost(p.Y, 2) {
		t.Fatalf("Apply = %v, want {12 2}", p)
	}

	// The same pipeline written with Mul: the receiver applies first.
	m2 := (Matrix{XX: 2, YY: 2}).Mul(Matrix{XX: 1, YY: 1, X0: 10})
	if q := m2.Apply(Point{1, 1}); !almost(q.X, 12) || !almost(q.Y, 2) {
		t.Fatalf("Mul Apply = %v, want {12 2}", q)
	}
}

func TestMatrixShear(t *testing.T) {
	// A shear parallel to the baseline moves x by a multiple of y and
	// leaves y untouched.
	m := Identity().Shear(0.5, 0)
	p := m.Apply(Point{0, 2})
	if !almost(p.X, 1) || !almost(p.Y, 2) {
		t.Fatalf("Apply = %v, want {1 2}", p)
	}
}

func TestRectUnionExtend(t *testing.T) {
	r := XYWH(0, 0, 1, 1).Union(XYWH(2, 2, 1, 1))
	if r != (Rect{Point{0, 0}, Point{3, 3}}) {
		t.Fatalf("Union = %v", r)
	}
	var ink Rect
	ink = ink.ExtendPoint(Point{1, -2})
	ink = ink.ExtendPoint(Point{-1, 4})
	if r := (Rect{Point{-1, -2}, Point{1, 4}}); ink != r {
		t.Fatalf("ExtendPoint = %v, want %v", ink, r)
	}
}

func TestRectEmpty(t *testing.T) {
	if !XYWH(0, 0, 0, 1).IsEmpty() || !XYWH(0, 0, 1, 0).IsEmpty() {
		t.Fatal("zero-size rect should be empty")
	}
	if XYWH(0, 0, 1, 1).IsEmpty() {
		t.Fatal("unit rect should not be empty")
	}
}

func TestDistanceToLine(t *testing.T) {
	d := Point{0, 1}.DistanceToLineSquared(Point{-1, 0}, Point{1, 0})
	if !almost(d, 1) {
		t.Fatalf("distance² = %g, want 1", d)
	}
	// Degenerate line falls back to point distance.
	d = Point{3, 4}.DistanceToLineSquared(Point{0, 0}, Point{0, 0})
	if !almost(d, 25) {
		t.Fatalf("degenerate distance² = %g, want 25", d)
	}
}
