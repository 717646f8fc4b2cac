// Package pkg holds the sketchreveal libraries.
//
// # Overview
//
// Sketchreveal turns SVG line drawings into hand-drawn reveal animations.
// The libraries are layered bottom-up:
//
//  1. [geom], [svgdoc] - path geometry and SVG parsing
//  2. [rough], [stroke] - jittered stroke generation
//  3. [choreo], [scene], [timeline] - scheduling and playback state
//  4. [playback], [studio] - the animate pipeline and session state
//  5. [render/sink] - SVG, PNG, PDF and JSON output
//  6. [llm], [demos], [config], [notify] - generation, catalog, settings
//     and user-facing notifications
//
// # Data Flow
//
//	SVG source (file, demo card, LLM)
//	         ↓
//	    [svgdoc] parse paths and viewBox
//	         ↓
//	    [stroke] roughen every path into strokes
//	         ↓
//	    [choreo] plan per-stroke instructions
//	         ↓
//	    [timeline] drive the [scene] over time
//	         ↓
//	    terminal, browser, or [render/sink] files
//
// # Quick Start
//
//	ctrl := playback.New()
//	tl, err := ctrl.Prepare(ctx, source, playback.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	tl.Seek(tl.Duration())
//	svg := sink.RenderSVG(tl.Scene(), tl.Instructions())
package pkg
