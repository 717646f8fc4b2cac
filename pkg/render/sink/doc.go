// Package sink renders a built scene into output formats.
//
// A "sink" turns a [scene.Scene] (and, for animated formats, the planned
// [choreo.Instruction] list) into bytes:
//
//   - SVG: standalone animated drawing using CSS keyframes
//   - Snapshot SVG: static drawing of the current stroke styles
//   - PNG: raster snapshot of the current styles (rasterx)
//   - PDF: fully drawn vector sketch (gofpdf)
//   - JSON: stroke geometry plus the instruction list
//
// Basic usage:
//
//	svg := sink.RenderSVG(sc, instrs, sink.WithBackground("#fff"))
//	png, err := sink.RenderPNG(sc, sink.WithPixelWidth(800))
//
// Every renderer reads styles through [scene.Scene.Snapshot], so a scene may
// keep animating while it is being rendered.
//
// [scene.Scene]: github.com/matzehuels/sketchreveal/pkg/scene.Scene
// [scene.Scene.Snapshot]: github.com/matzehuels/sketchreveal/pkg/scene.Scene.Snapshot
// [choreo.Instruction]: github.com/matzehuels/sketchreveal/pkg/choreo.Instruction
package sink
