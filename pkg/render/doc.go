// Package render groups the output backends for animated sketches.
//
// The [sink] subpackage writes a scene as an animated or snapshot SVG, a
// rasterized PNG, a vector PDF, or a JSON description of strokes and
// instructions. The backends draw the scene directly; no external tools are
// required.
package render
