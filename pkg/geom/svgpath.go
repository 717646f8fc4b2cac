package geom

import (
	"fmt"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// ParseSVGPath compiles SVG path data (the "d" attribute) into a measured
// Path. Arcs and shorthand commands are normalized by oksvg before
// flattening.
func ParseSVGPath(d string) (*Path, error) {
	var cursor oksvg.PathCursor
	if err := cursor.CompilePath(d); err != nil {
		return nil, fmt.Errorf("compile path data: %w", err)
	}
	var b Builder
	cursor.Path.AddTo(&fixedAdder{b: &b})
	return b.Path(), nil
}

// fixedAdder implements rasterx.Adder on top of a Builder, converting the
// 26.6 fixed point coordinates used by rasterx into float user units.
type fixedAdder struct {
	b *Builder
}

func (a *fixedAdder) Start(p fixed.Point26_6) { a.b.MoveTo(fromFixed(p)) }
func (a *fixedAdder) Line(p fixed.Point26_6)  { a.b.LineTo(fromFixed(p)) }
func (a *fixedAdder) QuadBezier(c, p fixed.Point26_6) {
	a.b.QuadTo(fromFixed(c), fromFixed(p))
}
func (a *fixedAdder) CubeBezier(c1, c2, p fixed.Point26_6) {
	a.b.CubeTo(fromFixed(c1), fromFixed(c2), fromFixed(p))
}

func (a *fixedAdder) Stop(closeLoop bool) {
	if closeLoop {
		a.b.Close()
	}
}

func fromFixed(p fixed.Point26_6) Point {
	return Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}

// Ensure fixedAdder implements rasterx.Adder.
var _ rasterx.Adder = (*fixedAdder)(nil)
