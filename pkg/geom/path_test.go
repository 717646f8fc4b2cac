package geom

import (
	"math"
	"testing"
)

const eps = 1e-6

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestBuilderLines(t *testing.T) {
	var b Builder
	b.MoveTo(Pt(0, 0))
	b.LineTo(Pt(10, 0))
	b.LineTo(Pt(10, 10))
	p := b.Path()

	if got := p.Length(); !near(got, 20, eps) {
		t.Fatalf("Length() = %v, want 20", got)
	}

	tests := []struct {
		l    float64
		want Point
	}{
		{-5, Pt(0, 0)},
		{0, Pt(0, 0)},
		{5, Pt(5, 0)},
		{10, Pt(10, 0)},
		{15, Pt(10, 5)},
		{20, Pt(10, 10)},
		{99, Pt(10, 10)},
	}
	for _, tt := range tests {
		got := p.PointAt(tt.l)
		if !near(got.X, tt.want.X, eps) || !near(got.Y, tt.want.Y, eps) {
			t.Errorf("PointAt(%v) = %v, want %v", tt.l, got, tt.want)
		}
	}
}

func TestBuilderSubpathJumpHasNoLength(t *testing.T) {
	var b Builder
	b.MoveTo(Pt(0, 0))
	b.LineTo(Pt(10, 0))
	b.MoveTo(Pt(50, 50))
	b.LineTo(Pt(60, 50))
	p := b.Path()

	if got := p.Length(); !near(got, 20, eps) {
		t.Fatalf("Length() = %v, want 20", got)
	}
	if got := p.PointAt(15); !near(got.X, 55, eps) || !near(got.Y, 50, eps) {
		t.Errorf("PointAt(15) = %v, want (55,50)", got)
	}
	if n := len(p.Subpaths()); n != 2 {
		t.Errorf("Subpaths() = %d, want 2", n)
	}
}

func TestBuilderConsecutiveMovesCollapse(t *testing.T) {
	var b Builder
	b.MoveTo(Pt(0, 0))
	b.MoveTo(Pt(5, 5))
	b.LineTo(Pt(5, 10))
	p := b.Path()

	if got := p.Start(); got != Pt(5, 5) {
		t.Errorf("Start() = %v, want (5,5)", got)
	}
	if n := len(p.Subpaths()); n != 1 {
		t.Errorf("Subpaths() = %d, want 1", n)
	}
}

func TestBuilderClose(t *testing.T) {
	var b Builder
	b.MoveTo(Pt(0, 0))
	b.LineTo(Pt(10, 0))
	b.LineTo(Pt(10, 10))
	b.Close()
	p := b.Path()

	want := 20 + math.Sqrt(200)
	if got := p.Length(); !near(got, want, eps) {
		t.Errorf("Length() = %v, want %v", got, want)
	}
}

func TestBuilderQuadLength(t *testing.T) {
	var b Builder
	b.MoveTo(Pt(0, 0))
	b.QuadTo(Pt(50, 0), Pt(100, 0)) // collinear control point: a straight line
	p := b.Path()

	if got := p.Length(); !near(got, 100, 1e-3) {
		t.Errorf("Length() = %v, want 100", got)
	}
}

func TestBuilderCubeLength(t *testing.T) {
	// Quarter circle approximation, radius 100.
	const k = 0.5522847498
	var b Builder
	b.MoveTo(Pt(100, 0))
	b.CubeTo(Pt(100, 100*k), Pt(100*k, 100), Pt(0, 100))
	p := b.Path()

	want := math.Pi * 100 / 2
	if got := p.Length(); !near(got, want, 0.1) {
		t.Errorf("Length() = %v, want ~%v", got, want)
	}
}

func TestEmptyPath(t *testing.T) {
	var p *Path
	if p.Length() != 0 {
		t.Error("nil path should have zero length")
	}
	if got := p.PointAt(3); got != (Point{}) {
		t.Errorf("PointAt on nil path = %v, want origin", got)
	}

	var b Builder
	b.MoveTo(Pt(3, 4))
	single := b.Path()
	if single.Length() != 0 {
		t.Errorf("single point path Length() = %v", single.Length())
	}
	if got := single.PointAt(10); got != Pt(3, 4) {
		t.Errorf("PointAt on degenerate path = %v, want (3,4)", got)
	}
}

func TestParseSVGPath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want float64
		tol  float64
	}{
		{"absolute lines", "M0 0 L10 0 L10 10", 20, 0.05},
		{"relative shorthand", "M0,0 h10 v10 h-10 z", 40, 0.05},
		{"two subpaths", "M0 0 L10 0 M100 100 L100 110", 20, 0.05},
		{"quadratic", "M0 0 Q50 0 100 0", 100, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseSVGPath(tt.d)
			if err != nil {
				t.Fatalf("ParseSVGPath(%q) error: %v", tt.d, err)
			}
			if got := p.Length(); !near(got, tt.want, tt.tol) {
				t.Errorf("Length() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLerpAndMid(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 20)
	if got := a.Mid(b); got != Pt(5, 10) {
		t.Errorf("Mid() = %v", got)
	}
	if got := a.Lerp(b, 0.25); got != Pt(2.5, 5) {
		t.Errorf("Lerp() = %v", got)
	}
	if got := a.Dist(Pt(3, 4)); got != 5 {
		t.Errorf("Dist() = %v", got)
	}
}
