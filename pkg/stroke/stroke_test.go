package stroke

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/sketchreveal/pkg/geom"
)

func square() *geom.Path {
	p, err := geom.ParseSVGPath("M10 10 h50 v50 h-50 z")
	if err != nil {
		panic(err)
	}
	return p
}

func TestLayers(t *testing.T) {
	tests := []struct {
		r    float64
		want int
	}{
		{0, 1},
		{0.5, 1},
		{1, 1},
		{1.01, 2},
		{2, 2},
		{2.01, 3},
		{10, 3},
	}
	for _, tt := range tests {
		if got := Layers(tt.r); got != tt.want {
			t.Errorf("Layers(%v) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestBuildLayering(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, r := range []float64{0, 1, 1.5, 2, 3} {
		g := Build(square(), 4, Options{Jitter: r, Width: 2, Color: "#336699"}, rng)
		if g.Index != 4 {
			t.Errorf("Index = %d, want 4", g.Index)
		}
		if n := len(g.Strokes); n < 1 || n > MaxLayers || n != Layers(r) {
			t.Fatalf("r=%v: %d strokes, want %d", r, n, Layers(r))
		}
		for i, s := range g.Strokes {
			wantW := 2 * (1 - 0.2*float64(i))
			wantO := 1 - 0.3*float64(i)
			if math.Abs(s.Width-wantW) > 1e-12 || math.Abs(s.StrokeOpacity-wantO) > 1e-12 {
				t.Errorf("r=%v layer %d: width=%v opacity=%v, want %v/%v", r, i, s.Width, s.StrokeOpacity, wantW, wantO)
			}
			if i > 0 {
				prev := g.Strokes[i-1]
				if s.Width >= prev.Width || s.StrokeOpacity >= prev.StrokeOpacity {
					t.Errorf("r=%v layer %d should be thinner and lighter than layer %d", r, i, i-1)
				}
			}
			if s.Color != "#336699" || s.Layer != i {
				t.Errorf("layer %d: color=%q layer=%d", i, s.Color, s.Layer)
			}
		}
	}
}

func TestBuildMeasuresEachStroke(t *testing.T) {
	g := Build(square(), 0, Options{Jitter: 3, Width: 2}, rand.New(rand.NewPCG(9, 9)))
	for i, s := range g.Strokes {
		if s.Length <= 0 || s.Length != s.Path.Length() {
			t.Errorf("stroke %d: Length=%v Path.Length()=%v", i, s.Length, s.Path.Length())
		}
		if s.D == "" || s.D[0] != 'M' {
			t.Errorf("stroke %d: bad path data %q", i, s.D)
		}
	}
	if g.Strokes[0].D == g.Strokes[1].D {
		t.Error("layers should be jittered independently")
	}
}

func TestBuildDegeneratePath(t *testing.T) {
	var b geom.Builder
	b.MoveTo(geom.Pt(5, 5))
	g := Build(b.Path(), 0, Options{Jitter: 0, Width: 1}, nil)
	if len(g.Strokes) != 1 {
		t.Fatalf("len(Strokes) = %d, want 1", len(g.Strokes))
	}
	if g.Strokes[0].Length != 0 {
		t.Errorf("Length = %v, want 0", g.Strokes[0].Length)
	}
}

func TestCount(t *testing.T) {
	groups := []Group{{Strokes: make([]Stroke, 3)}, {Strokes: make([]Stroke, 1)}, {}}
	if got := Count(groups); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
}
