// Package rough turns clean vector paths into hand-drawn looking ones.
//
// [Roughen] resamples a path along its arc length and displaces every sample
// by a uniform random offset. Low jitter connects the samples with straight
// lines; higher jitter connects them with quadratic curves whose control
// points are jittered as well, which reads as a looser, sketchier line.
//
// Output is intentionally non-reproducible unless the caller supplies a
// seeded random source.
package rough

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/geom"
)

const (
	// MinSegments is the minimum number of segments a path is resampled into.
	MinSegments = 10

	// SampleSpacing is the arc length (user units) per resampled segment.
	SampleSpacing = 5.0

	// CurveThreshold is the jitter above which samples are joined with
	// quadratic curves instead of lines.
	CurveThreshold = 1.5

	// MaxSegments caps the resampling of a single path.
	MaxSegments = 100_000
)

// Segments is the resampling count for a path of the given length.
func Segments(length float64) float64 {
	return max(MinSegments, length/SampleSpacing)
}

// CheckLength rejects lengths the roughener would have to resample into
// more than MaxSegments segments.
func CheckLength(length float64) error {
	if math.IsNaN(length) || math.IsInf(length, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "path length is not finite")
	}
	if segs := Segments(length); segs > MaxSegments {
		return errors.New(errors.ErrCodeInvalidInput,
			"path too long to sketch: %.0f units needs %.0f segments (max %d)", length, segs, MaxSegments)
	}
	return nil
}

// Source is what Roughen reads from: anything with an arc length and a
// point-at-length query.
type Source interface {
	Length() float64
	PointAt(l float64) geom.Point
}

// Op is a path command kind.
type Op byte

// Path commands emitted by Roughen.
const (
	MoveTo Op = 'M'
	LineTo Op = 'L'
	QuadTo Op = 'Q'
)

// Command is one rough path command. Ctrl is only set for QuadTo.
type Command struct {
	Op   Op
	Ctrl geom.Point
	To   geom.Point
}

// Path is a roughened path.
type Path struct {
	Commands []Command
}

// Roughen resamples src into max(10, L/5) segments and jitters every sample
// by up to r on each axis. A nil rng uses the global random source.
//
// The segment count never exceeds MaxSegments; callers that must not
// coarsen long paths check them with CheckLength first.
func Roughen(src Source, r float64, rng *rand.Rand) Path {
	r = max(r, 0)
	total := src.Length()
	if !(total >= 0) || math.IsInf(total, 1) {
		total = 0
	}
	segs := min(Segments(total), MaxSegments)
	step := total / segs
	n := int(math.Floor(segs))

	out := Path{Commands: make([]Command, 0, n+1)}
	var prev geom.Point
	for i := 0; i <= n; i++ {
		pt := jitter(src.PointAt(step*float64(i)), r, rng)
		switch {
		case i == 0:
			out.Commands = append(out.Commands, Command{Op: MoveTo, To: pt})
		case r > CurveThreshold:
			ctrl := jitter(prev.Mid(pt), r/2, rng)
			out.Commands = append(out.Commands, Command{Op: QuadTo, Ctrl: ctrl, To: pt})
		default:
			out.Commands = append(out.Commands, Command{Op: LineTo, To: pt})
		}
		prev = pt
	}
	return out
}

// jitter displaces p by a uniform offset in [-r, r] on each axis.
func jitter(p geom.Point, r float64, rng *rand.Rand) geom.Point {
	return geom.Point{
		X: p.X + (float64rand(rng)-0.5)*2*r,
		Y: p.Y + (float64rand(rng)-0.5)*2*r,
	}
}

func float64rand(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

// Points returns the on-path points (move-to and segment end points).
func (p Path) Points() []geom.Point {
	pts := make([]geom.Point, len(p.Commands))
	for i, c := range p.Commands {
		pts[i] = c.To
	}
	return pts
}

// Measure builds the measured geometry of the rough path, used for its own
// dash length.
func (p Path) Measure() *geom.Path {
	var b geom.Builder
	for _, c := range p.Commands {
		switch c.Op {
		case MoveTo:
			b.MoveTo(c.To)
		case LineTo:
			b.LineTo(c.To)
		case QuadTo:
			b.QuadTo(c.Ctrl, c.To)
		}
	}
	return b.Path()
}

// String renders SVG path data, e.g. "M 1 2 L 3 4".
func (p Path) String() string {
	var sb strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(c.Op))
		if c.Op == QuadTo {
			writeCoord(&sb, c.Ctrl)
		}
		writeCoord(&sb, c.To)
	}
	return sb.String()
}

func writeCoord(sb *strings.Builder, p geom.Point) {
	sb.WriteByte(' ')
	sb.WriteString(formatFloat(p.X))
	sb.WriteByte(' ')
	sb.WriteString(formatFloat(p.Y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
