// Package stroke layers roughened copies of a path into pencil-like strokes.
package stroke

import (
	"math/rand/v2"

	"github.com/matzehuels/sketchreveal/pkg/geom"
	"github.com/matzehuels/sketchreveal/pkg/rough"
)

const (
	// WidthFalloff is the fraction of the base width lost per layer.
	WidthFalloff = 0.2

	// OpacityFalloff is the stroke opacity lost per layer.
	OpacityFalloff = 0.3

	// MaxLayers is the largest number of strokes in a group.
	MaxLayers = 3
)

// Line cap and join styles. Both are fixed for every stroke.
const (
	LineCap  = "round"
	LineJoin = "round"
)

// Options controls how a source path is turned into strokes.
type Options struct {
	Jitter float64 // r: max per-axis displacement
	Width  float64 // w: base stroke width
	Color  string
}

// Stroke is one independently jittered line approximating a source path.
// Geometry and paint are fixed at creation; only the animated style held by
// the scene changes during playback.
type Stroke struct {
	Layer         int
	D             string
	Path          *geom.Path
	Length        float64
	Width         float64
	StrokeOpacity float64
	Color         string
}

// Group holds the strokes built for the source path at Index.
type Group struct {
	Index   int
	Strokes []Stroke
}

// Layers returns the number of strokes built for jitter r.
func Layers(r float64) int {
	switch {
	case r > 2:
		return 3
	case r > 1:
		return 2
	default:
		return 1
	}
}

// Build roughens src once per layer. Layers get decreasing width and
// opacity; each is measured on its own rough geometry.
func Build(src rough.Source, index int, opts Options, rng *rand.Rand) Group {
	n := Layers(opts.Jitter)
	g := Group{Index: index, Strokes: make([]Stroke, n)}
	for i := range n {
		rp := rough.Roughen(src, opts.Jitter, rng)
		measured := rp.Measure()
		g.Strokes[i] = Stroke{
			Layer:         i,
			D:             rp.String(),
			Path:          measured,
			Length:        measured.Length(),
			Width:         opts.Width * (1 - float64(i)*WidthFalloff),
			StrokeOpacity: 1 - float64(i)*OpacityFalloff,
			Color:         opts.Color,
		}
	}
	return g
}

// Count returns the total number of strokes across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Strokes)
	}
	return n
}
