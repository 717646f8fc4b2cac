package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/scene"
	"github.com/matzehuels/sketchreveal/pkg/stroke"
)

// Easing is the CSS equivalent of [choreo.EaseInOutQuad].
const Easing = "cubic-bezier(0.455,0.03,0.515,0.955)"

const strokeCSS = `
    .stroke { fill: none; stroke-linecap: round; stroke-linejoin: round; }
    .animated { animation-name: draw; animation-timing-function: ` + Easing + `; animation-fill-mode: both; }
    @keyframes draw { to { stroke-dashoffset: 0; opacity: 1; } }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	width      float64
	height     float64
	loop       bool
}

func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithLoop repeats the animation forever instead of holding the last frame.
func WithLoop() SVGOption { return func(r *svgRenderer) { r.loop = true } }

// RenderSVG writes a standalone SVG that replays instrs in any browser.
// Strokes without an instruction are drawn in their current style.
func RenderSVG(sc *scene.Scene, instrs []choreo.Instruction, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	byRef := make(map[scene.Ref]choreo.Instruction, len(instrs))
	for _, in := range instrs {
		byRef[scene.Ref{Group: in.Group, Stroke: in.Stroke}] = in
	}

	var buf bytes.Buffer
	r.open(&buf, sc)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", strokeCSS)
	if r.loop {
		fmt.Fprintf(&buf, "  <style> .animated { animation-iteration-count: infinite; } </style>\n")
	}

	styles := sc.Snapshot()
	for gi, g := range sc.Groups {
		fmt.Fprintf(&buf, `  <g id="path-%d">`+"\n", g.Index)
		for si, s := range g.Strokes {
			in, ok := byRef[scene.Ref{Group: gi, Stroke: si}]
			if !ok {
				writeStroke(&buf, s, styles[gi][si], "")
				continue
			}
			anim := fmt.Sprintf(" animation-duration: %dms; animation-delay: %dms;",
				in.Duration.Milliseconds(), in.Start().Milliseconds())
			writeStroke(&buf, s, scene.Style{DashOffset: in.FromDashOffset, Opacity: in.FromOpacity}, anim)
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderSnapshotSVG writes a static SVG of the scene's current styles.
func RenderSnapshotSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	r.open(&buf, sc)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", strokeCSS)
	styles := sc.Snapshot()
	for gi, g := range sc.Groups {
		fmt.Fprintf(&buf, `  <g id="path-%d">`+"\n", g.Index)
		for si, s := range g.Strokes {
			writeStroke(&buf, s, styles[gi][si], "")
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r svgRenderer) open(buf *bytes.Buffer, sc *scene.Scene) {
	vb, err := ParseViewBox(sc.ViewBox)
	if err != nil {
		vb = defaultViewBox
	}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s"`, html.EscapeString(vb.String()))
	if r.width > 0 && r.height > 0 {
		fmt.Fprintf(buf, ` width="%s" height="%s"`, num(r.width), num(r.height))
	}
	buf.WriteString(">\n")
	if r.background != "" {
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(vb.MinX), num(vb.MinY), num(vb.Width), num(vb.Height), html.EscapeString(r.background))
	}
}

func writeStroke(buf *bytes.Buffer, s stroke.Stroke, st scene.Style, anim string) {
	class := "stroke"
	if anim != "" {
		class += " animated"
	}
	fmt.Fprintf(buf, `    <path class="%s" d="%s" stroke="%s" stroke-width="%s" stroke-opacity="%s" stroke-dasharray="%s" style="stroke-dashoffset: %s; opacity: %s;%s"/>`+"\n",
		class, s.D, html.EscapeString(s.Color), num(s.Width), num(s.StrokeOpacity),
		num(s.Length), num(st.DashOffset), num(st.Opacity), anim)
}

// num formats v with at most three decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
