// Package geom measures SVG paths.
//
// A [Path] is an immutable, flattened representation of SVG path data with
// the two queries the sketch animation needs: the total arc length and the
// point at a given arc length. Curves are flattened into short line segments
// when the path is built, so both queries are cheap afterwards.
//
// # Building paths
//
// Paths come either from SVG path data:
//
//	p, err := geom.ParseSVGPath("M10 10 C 20 20, 40 20, 50 10")
//	fmt.Println(p.Length(), p.PointAt(p.Length()/2))
//
// or from a [Builder] driven command by command:
//
//	var b geom.Builder
//	b.MoveTo(geom.Pt(0, 0))
//	b.QuadTo(geom.Pt(5, 10), geom.Pt(10, 0))
//	p := b.Path()
//
// Subpaths (additional move-to commands) are kept, but the jump between them
// contributes no length, matching how browsers measure multi-part paths.
package geom
