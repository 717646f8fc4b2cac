package geom

import "math"

// Point is a 2D point in user units.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point { return p.Lerp(q, 0.5) }

func quadAt(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func cubeAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2, t2 := mt*mt, t*t
	return Point{
		X: mt2*mt*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t2*t*p3.X,
		Y: mt2*mt*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t2*t*p3.Y,
	}
}
