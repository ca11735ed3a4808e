package geom

import (
	"math"
	"testing"
)

// maxDeviation samples the true curve densely and measures the distance of
// each sample from the nearest polyline segment.
func maxDeviation(s Spline, poly []Point) float64 {
	pts := append([]Point{s.A}, poly...)
	worst := 0.0
	for i := 0; i <= 1000; i++ {
		p := s.Eval(float64(i) / 1000)
		best := math.Inf(1)
		for j := 0; j+1 < len(pts); j++ {
			d := distToSegmentSquared(p, pts[j], pts[j+1])
			if d < best {
				best = d
			}
		}
		if d := math.Sqrt(best); d > worst {
			worst = d
		}
	}
	return worst
}

func distToSegmentSquared(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	den := dx*dx + dy*dy
	if den == 0 {
		return p.DistanceToPointSquared(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceToPointSquared(Point{a.X + t*dx, a.Y + t*dy})
}

func TestFlattenWithinTolerance(t *testing.T) {
	curves := []Spline{
		{Point{0, 0}, Point{1, 2}, Point{3, 2}, Point{4, 0}},
		{Point{0, 0}, Point{0, -42}, Point{28, -42}, Point{28, 0}},
		{Point{14, -50}, Point{-5, -32}, Point{-5, -5}, Point{14, 14}},
	}
	for _, tol := range []float64{0.1, 0.01, 0.001} {
		for _, s := range curves {
			poly := s.Flatten(tol, nil)
			if got := maxDeviation(s, poly); got > tol*1.001 {
				t.Errorf("curve %v tol %g: deviation %g", s, tol, got)
			}
			if last := poly[len(poly)-1]; last != s.D {
				t.Errorf("curve %v: last point %v, want end point %v", s, last, s.D)
			}
		}
	}
}

func TestFlattenColinearIsChord(t *testing.T) {
	// Degenerate spline with colinear control points must collapse to a
	// single chord: one emitted point (the end; the start is implicit).
	s := Spline{Point{0, 0}, Point{1, 1}, Point{2, 2}, Point{3, 3}}
	poly := s.Flatten(0.001, nil)
	if len(poly) != 1 || poly[0] != (Point{3, 3}) {
		t.Fatalf("colinear flatten = %v, want [{3 3}]", poly)
	}
}

func TestFlattenDepthCeilingTerminates(t *testing.T) {
	// Coincident control points with a wildly off-chord interior point and
	// an impossible tolerance must still terminate via the depth ceiling.
	s := Spline{Point{0, 0}, Point{1e9, 1e9}, Point{1e9, -1e9}, Point{0, 0}}
	poly := s.Flatten(1e-12, nil)
	if len(poly) == 0 {
		t.Fatal("no points emitted")
	}
	if len(poly) > 1<<maxSplitDepth {
		t.Fatalf("emitted %d points, subdivision not bounded", len(poly))
	}
	if poly[len(poly)-1] != s.D {
		t.Fatalf("last point %v, want %v", poly[len(poly)-1], s.D)
	}
}

func TestFlattenChains(t *testing.T) {
	s := Spline{Point{0, 0}, Point{1, 2}, Point{3, 2}, Point{4, 0}}
	a, b := s.Split()
	poly := a.Flatten(0.01, nil)
	poly = b.Flatten(0.01, poly)
	for i := 1; i < len(poly); i++ {
		if poly[i] == poly[i-1] {
			t.Fatalf("duplicate point %v at %d", poly[i], i)
		}
	}
}

func TestQuadraticElevation(t *testing.T) {
	a, q, d := Point{0, 0}, Point{2, 4}, Point{4, 0}
	s := Quadratic(a, q, d)
	// The elevated cubic must trace the same curve as the quadratic.
	for i := 0; i <= 100; i++ {
		t1 := float64(i) / 100
		m := 1 - t1
		want := Point{
			m*m*a.X + 2*m*t1*q.X + t1*t1*d.X,
			m*m*a.Y + 2*m*t1*q.Y + t1*t1*d.Y,
		}
		got := s.Eval(t1)
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
			t.Fatalf("t=%g: cubic %v, quadratic %v", t1, got, want)
		}
	}
}
