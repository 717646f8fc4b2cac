// Package scene holds the render target of an animation: the stroke groups
// built from a document plus the animated style of every stroke.
//
// A Scene is safe for concurrent use. Geometry never changes after [New];
// styles are written by the timeline and read by renderers and front ends.
package scene

import (
	"sync"

	"github.com/matzehuels/sketchreveal/pkg/stroke"
)

// Style is the animated part of a stroke.
type Style struct {
	DashOffset float64 `json:"dashOffset"`
	Opacity    float64 `json:"opacity"`
}

// Undrawn is the style of a stroke that has not started: fully offset and
// invisible.
func Undrawn(s stroke.Stroke) Style {
	return Style{DashOffset: s.Length, Opacity: 0}
}

// Drawn reports whether a style is at its final value.
func (s Style) Drawn() bool {
	return s.DashOffset == 0 && s.Opacity == 1
}

// Ref addresses one stroke.
type Ref struct {
	Group  int
	Stroke int
}

// Scene is the render target.
type Scene struct {
	ViewBox string
	Groups  []stroke.Group

	mu     sync.RWMutex
	styles [][]Style
}

// New creates a scene with every stroke undrawn.
func New(viewBox string, groups []stroke.Group) *Scene {
	s := &Scene{ViewBox: viewBox, Groups: groups}
	s.styles = make([][]Style, len(groups))
	for gi, g := range groups {
		s.styles[gi] = make([]Style, len(g.Strokes))
	}
	s.undraw()
	return s
}

// StrokeCount is the number of strokes in the scene.
func (s *Scene) StrokeCount() int { return stroke.Count(s.Groups) }

// Stroke returns the geometry addressed by r.
func (s *Scene) Stroke(r Ref) (stroke.Stroke, bool) {
	if r.Group < 0 || r.Group >= len(s.Groups) {
		return stroke.Stroke{}, false
	}
	g := s.Groups[r.Group]
	if r.Stroke < 0 || r.Stroke >= len(g.Strokes) {
		return stroke.Stroke{}, false
	}
	return g.Strokes[r.Stroke], true
}

// Set updates the style of one stroke. Unknown refs are ignored.
func (s *Scene) Set(r Ref, st Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Group < 0 || r.Group >= len(s.styles) || r.Stroke < 0 || r.Stroke >= len(s.styles[r.Group]) {
		return
	}
	s.styles[r.Group][r.Stroke] = st
}

// Style returns the current style of one stroke.
func (s *Scene) Style(r Ref) Style {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r.Group < 0 || r.Group >= len(s.styles) || r.Stroke < 0 || r.Stroke >= len(s.styles[r.Group]) {
		return Style{}
	}
	return s.styles[r.Group][r.Stroke]
}

// Undraw forces every stroke back to its undrawn style.
func (s *Scene) Undraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undraw()
}

func (s *Scene) undraw() {
	for gi, g := range s.Groups {
		for si, st := range g.Strokes {
			s.styles[gi][si] = Undrawn(st)
		}
	}
}

// Snapshot copies the current styles, indexed like Groups.
func (s *Scene) Snapshot() [][]Style {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]Style, len(s.styles))
	for gi := range s.styles {
		out[gi] = append([]Style(nil), s.styles[gi]...)
	}
	return out
}

// AllUndrawn reports whether every stroke is in its undrawn style.
func (s *Scene) AllUndrawn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for gi, g := range s.Groups {
		for si, st := range g.Strokes {
			if s.styles[gi][si] != Undrawn(st) {
				return false
			}
		}
	}
	return true
}

// AllDrawn reports whether every stroke is fully drawn and opaque.
func (s *Scene) AllDrawn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.styles {
		for _, st := range row {
			if !st.Drawn() {
				return false
			}
		}
	}
	return true
}
