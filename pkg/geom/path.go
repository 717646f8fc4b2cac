package geom

import (
	"math"
	"sort"
)

// flattenStep is the target chord length (user units) when flattening curves.
const flattenStep = 0.5

// Maximum number of chords a single curve is split into.
const maxCurveSteps = 512

// Path is a flattened, measured vector path. The zero value is an empty path.
// A Path is never modified after [Builder.Path] returns it.
type Path struct {
	pts   []Point
	cum   []float64 // arc length at pts[i]
	jumps []bool    // jumps[i]: pts[i] starts a new subpath
}

// Length returns the total arc length. Jumps between subpaths do not count.
func (p *Path) Length() float64 {
	if p == nil || len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// Empty reports whether the path has no vertices at all.
func (p *Path) Empty() bool {
	return p == nil || len(p.pts) == 0
}

// Start returns the first vertex, or the origin for an empty path.
func (p *Path) Start() Point {
	if p.Empty() {
		return Point{}
	}
	return p.pts[0]
}

// Vertices returns a copy of the flattened vertices.
func (p *Path) Vertices() []Point {
	if p.Empty() {
		return nil
	}
	return append([]Point(nil), p.pts...)
}

// Subpaths returns the flattened vertices split at every move-to.
func (p *Path) Subpaths() [][]Point {
	if p.Empty() {
		return nil
	}
	var out [][]Point
	start := 0
	for i := 1; i < len(p.pts); i++ {
		if p.jumps[i] {
			out = append(out, append([]Point(nil), p.pts[start:i]...))
			start = i
		}
	}
	return append(out, append([]Point(nil), p.pts[start:]...))
}

// PointAt returns the point at arc length l, clamped to [0, Length()].
// An empty path answers the origin.
func (p *Path) PointAt(l float64) Point {
	if p.Empty() {
		return Point{}
	}
	if l <= 0 || math.IsNaN(l) {
		return p.pts[0]
	}
	total := p.Length()
	if l >= total {
		return p.pts[len(p.pts)-1]
	}
	j := sort.Search(len(p.cum)-1, func(i int) bool { return p.cum[i+1] >= l }) + 1
	a, b := p.cum[j-1], p.cum[j]
	if b <= a {
		return p.pts[j]
	}
	return p.pts[j-1].Lerp(p.pts[j], (l-a)/(b-a))
}

// Builder accumulates path commands into a [Path]. The zero value is ready
// to use.
type Builder struct {
	path  Path
	start Point // current subpath start
	cur   Point
	open  bool // a subpath has been started
}

// MoveTo starts a new subpath at pt.
func (b *Builder) MoveTo(pt Point) {
	b.push(pt, true)
	b.start, b.cur, b.open = pt, pt, true
}

// LineTo adds a straight segment to pt.
func (b *Builder) LineTo(pt Point) {
	b.ensureOpen()
	b.push(pt, false)
	b.cur = pt
}

// QuadTo adds a quadratic Bézier with control point c ending at pt.
func (b *Builder) QuadTo(c, pt Point) {
	b.ensureOpen()
	p0 := b.cur
	n := curveSteps(p0.Dist(c) + c.Dist(pt))
	for i := 1; i <= n; i++ {
		b.push(quadAt(p0, c, pt, float64(i)/float64(n)), false)
	}
	b.cur = pt
}

// CubeTo adds a cubic Bézier with control points c1, c2 ending at pt.
func (b *Builder) CubeTo(c1, c2, pt Point) {
	b.ensureOpen()
	p0 := b.cur
	n := curveSteps(p0.Dist(c1) + c1.Dist(c2) + c2.Dist(pt))
	for i := 1; i <= n; i++ {
		b.push(cubeAt(p0, c1, c2, pt, float64(i)/float64(n)), false)
	}
	b.cur = pt
}

// Close draws a segment back to the current subpath start.
func (b *Builder) Close() {
	if !b.open {
		return
	}
	if b.cur != b.start {
		b.push(b.start, false)
	}
	b.cur = b.start
}

// Path returns the measured path. The builder must not be used afterwards.
func (b *Builder) Path() *Path {
	p := b.path
	b.path = Path{}
	return &p
}

func (b *Builder) ensureOpen() {
	if !b.open {
		b.MoveTo(b.cur)
	}
}

func (b *Builder) push(pt Point, jump bool) {
	n := len(b.path.pts)
	if n == 0 {
		b.path.pts = append(b.path.pts, pt)
		b.path.cum = append(b.path.cum, 0)
		b.path.jumps = append(b.path.jumps, true)
		return
	}
	// A move-to directly after another move-to replaces it.
	if jump && b.path.jumps[n-1] {
		b.path.pts[n-1] = pt
		return
	}
	l := b.path.cum[n-1]
	if !jump {
		l += b.path.pts[n-1].Dist(pt)
	}
	b.path.pts = append(b.path.pts, pt)
	b.path.cum = append(b.path.cum, l)
	b.path.jumps = append(b.path.jumps, jump)
}

func curveSteps(hull float64) int {
	n := int(math.Ceil(hull / flattenStep))
	return max(4, min(n, maxCurveSteps))
}
