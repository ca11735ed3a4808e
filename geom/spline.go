package geom

// Spline is a cubic Bezier segment. Quadratic curves are represented as
// degree-elevated cubics (see Quadratic) so the rest of the pipeline only
// ever deals with one curve kind.
type Spline struct {
	A, B, C, D Point
}

// maxSplitDepth bounds the recursive subdivision independently of the
// flatness test, so degenerate control polygons (coincident points,
// zero-length tangents) always terminate. Hitting the ceiling emits the
// remaining chord as-is; it is not an error.
const maxSplitDepth = 16

// Quadratic returns the cubic equivalent of the quadratic Bezier from a
// through control point q to d.
func Quadratic(a, q, d Point) Spline {
	return Spline{
		A: a,
		B: Point{a.X + 2*(q.X-a.X)/3, a.Y + 2*(q.Y-a.Y)/3},
		C: Point{d.X + 2*(q.X-d.X)/3, d.Y + 2*(q.Y-d.Y)/3},
		D: d,
	}
}

// Split subdivides s at t = 0.5 using de Casteljau's construction.
func (s Spline) Split() (Spline, Spline) {
	ab := s.A.Mid(s.B)
	bc := s.B.Mid(s.C)
	cd := s.C.Mid(s.D)
	abbc := ab.Mid(bc)
	bccd := bc.Mid(cd)
	mid := abbc.Mid(bccd)

	return Spline{s.A, ab, abbc, mid}, Spline{mid, bccd, cd, s.D}
}

// errorSquared returns an upper bound on the squared deviation between s
// and the chord connecting its endpoints: the larger of the two interior
// control point distances from the chord.
func (s Spline) errorSquared() float64 {
	berr := s.B.DistanceToLineSquared(s.A, s.D)
	cerr := s.C.DistanceToLineSquared(s.A, s.D)
	if berr > cerr {
		return berr
	}
	return cerr
}

// Flatten appends a polyline approximation of s to dst and returns it.
// The maximum perpendicular deviation from the true curve is at most
// tolerance, except when the subdivision depth ceiling is reached. The
// start point s.A is not emitted and the end point s.D always is, so
// consecutive segments chain without duplicate points.
func (s Spline) Flatten(tolerance float64, dst []Point) []Point {
	return s.flatten(tolerance*tolerance, 0, dst)
}

func (s Spline) flatten(tolSquared float64, depth int, dst []Point) []Point {
	if depth >= maxSplitDepth || s.errorSquared() <= tolSquared {
		return append(dst, s.D)
	}
	s1, s2 := s.Split()
	dst = s1.flatten(tolSquared, depth+1, dst)
	return s2.flatten(tolSquared, depth+1, dst)
}

// Eval evaluates the curve position at parameter t in [0, 1]. Used by
// tests to compare flattened polylines against a dense reference.
func (s Spline) Eval(t float64) Point {
	m := 1 - t
	return Point{
		m*m*m*s.A.X + 3*m*m*t*s.B.X + 3*m*t*t*s.C.X + t*t*t*s.D.X,
		m*m*m*s.A.Y + 3*m*m*t*s.B.Y + 3*m*t*t*s.C.Y + t*t*t*s.D.Y,
	}
}
