package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/geom"
	"github.com/matzehuels/sketchreveal/pkg/scene"
	"github.com/matzehuels/sketchreveal/pkg/stroke"
)

// DefaultPixelWidth matches the width the drawing is displayed at.
const DefaultPixelWidth = 400

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width       int
	transparent bool
	background  color.Color
}

// WithPixelWidth sets the output width; height follows the viewBox aspect.
func WithPixelWidth(px int) PNGOption {
	return func(r *pngRenderer) { r.width = px }
}

// WithTransparent leaves the canvas unpainted instead of white.
func WithTransparent() PNGOption {
	return func(r *pngRenderer) { r.transparent = true }
}

// RenderPNG rasterizes the scene's current styles. A stroke is drawn up to
// the length its dash offset reveals, at its combined opacity.
func RenderPNG(sc *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: DefaultPixelWidth, background: color.White}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png width must be positive, got %d", r.width)
	}

	vb, err := ParseViewBox(sc.ViewBox)
	if err != nil {
		return nil, err
	}
	t := fit(vb, float64(r.width))
	h := max(1, int(math.Round(vb.Height*t.scale)))

	img := image.NewRGBA(image.Rect(0, 0, r.width, h))
	if !r.transparent {
		draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	}
	scanner := rasterx.NewScannerGV(r.width, h, img, img.Bounds())
	dasher := rasterx.NewDasher(r.width, h, scanner)

	styles := sc.Snapshot()
	for gi, g := range sc.Groups {
		for si, s := range g.Strokes {
			if err := drawStroke(dasher, s, styles[gi][si], t); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawStroke(d *rasterx.Dasher, s stroke.Stroke, st scene.Style, t transform) error {
	if st.Opacity <= 0 || s.Path == nil || s.Path.Empty() {
		return nil
	}
	if s.Length > 0 && st.DashOffset >= s.Length {
		return nil
	}
	clr, err := oksvg.ParseSVGColor(s.Color)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "stroke color %q", s.Color)
	}

	var dashes []float64
	var offset float64
	if s.Length > 0 && st.DashOffset > 0 {
		dashes = []float64{s.Length * t.scale, s.Length * t.scale}
		offset = st.DashOffset * t.scale
	}

	d.Clear()
	d.SetStroke(toFixed(s.Width*t.scale), toFixed(4), rasterx.RoundCap, rasterx.RoundCap,
		rasterx.RoundGap, rasterx.Round, dashes, offset)
	for _, sub := range s.Path.Subpaths() {
		for i, p := range sub {
			fp := t.apply(p)
			if i == 0 {
				d.Start(fp)
				continue
			}
			d.Line(fp)
		}
		d.Stop(false)
	}
	d.SetColor(rasterx.ApplyOpacity(clr, s.StrokeOpacity*st.Opacity))
	d.Draw()
	return nil
}

// transform maps viewBox units onto the output surface.
type transform struct {
	minX, minY float64
	scale      float64
}

func fit(vb ViewBox, width float64) transform {
	return transform{minX: vb.MinX, minY: vb.MinY, scale: width / vb.Width}
}

func (t transform) point(p geom.Point) geom.Point {
	return geom.Pt((p.X-t.minX)*t.scale, (p.Y-t.minY)*t.scale)
}

func (t transform) apply(p geom.Point) fixed.Point26_6 {
	q := t.point(p)
	return fixed.Point26_6{X: toFixed(q.X), Y: toFixed(q.Y)}
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
