package sink

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
	"github.com/srwiley/oksvg"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/scene"
)

// DefaultPageWidth is the PDF page width in points.
const DefaultPageWidth = 400.0

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	width float64
	title string
}

// WithPageWidth sets the page width in points; height follows the viewBox.
func WithPageWidth(pt float64) PDFOption {
	return func(r *pdfRenderer) { r.width = pt }
}

func WithTitle(s string) PDFOption { return func(r *pdfRenderer) { r.title = s } }

// RenderPDF writes the fully drawn sketch as a single vector page. Styles are
// ignored: every stroke is drawn at its paint opacity.
func RenderPDF(sc *scene.Scene, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{width: DefaultPageWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page width must be positive, got %v", r.width)
	}

	vb, err := ParseViewBox(sc.ViewBox)
	if err != nil {
		return nil, err
	}
	t := fit(vb, r.width)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: r.width, Ht: vb.Height * t.scale},
	})
	pdf.SetCreator("sketchreveal", true)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, g := range sc.Groups {
		for _, s := range g.Strokes {
			if s.Path == nil || s.Path.Empty() {
				continue
			}
			clr, err := oksvg.ParseSVGColor(s.Color)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stroke color %q", s.Color)
			}
			cr, cg, cb, _ := clr.RGBA()
			pdf.SetDrawColor(int(cr>>8), int(cg>>8), int(cb>>8))
			pdf.SetLineWidth(s.Width * t.scale)
			pdf.SetAlpha(s.StrokeOpacity, "Normal")
			for _, sub := range s.Path.Subpaths() {
				for i, p := range sub {
					q := t.point(p)
					if i == 0 {
						pdf.MoveTo(q.X, q.Y)
						continue
					}
					pdf.LineTo(q.X, q.Y)
				}
				pdf.DrawPath("D")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}
