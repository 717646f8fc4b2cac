package sink

import (
	"encoding/json"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	mode     choreo.Mode
	geometry bool
}

// WithJSONMode records the choreography mode in the output.
func WithJSONMode(m choreo.Mode) JSONOption { return func(r *jsonRenderer) { r.mode = m } }

// WithJSONGeometry includes the flattened vertices of every stroke, for
// consumers that cannot parse path data.
func WithJSONGeometry() JSONOption { return func(r *jsonRenderer) { r.geometry = true } }

type jsonOutput struct {
	ViewBox      string            `json:"viewBox"`
	Mode         int               `json:"mode,omitempty"`
	DurationMS   int64             `json:"duration_ms"`
	Groups       []jsonGroup       `json:"groups"`
	Instructions []jsonInstruction `json:"instructions"`
}

type jsonGroup struct {
	Index   int          `json:"index"`
	Strokes []jsonStroke `json:"strokes"`
}

type jsonStroke struct {
	Layer         int            `json:"layer"`
	D             string         `json:"d"`
	Length        float64        `json:"length"`
	Width         float64        `json:"width"`
	StrokeOpacity float64        `json:"stroke_opacity"`
	Color         string         `json:"color"`
	Style         scene.Style    `json:"style"`
	Points        [][][2]float64 `json:"points,omitempty"`
}

type jsonInstruction struct {
	Group          int     `json:"group"`
	Stroke         int     `json:"stroke"`
	PositionMS     int64   `json:"position_ms"`
	DelayMS        int64   `json:"delay_ms"`
	DurationMS     int64   `json:"duration_ms"`
	FromDashOffset float64 `json:"from_dash_offset"`
	ToDashOffset   float64 `json:"to_dash_offset"`
	FromOpacity    float64 `json:"from_opacity"`
	ToOpacity      float64 `json:"to_opacity"`
}

// RenderJSON exports the scene geometry, its current styles and the
// instruction list.
func RenderJSON(sc *scene.Scene, instrs []choreo.Instruction, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ViewBox:      sc.ViewBox,
		Mode:         int(r.mode),
		DurationMS:   choreo.Span(instrs).Milliseconds(),
		Groups:       make([]jsonGroup, len(sc.Groups)),
		Instructions: make([]jsonInstruction, len(instrs)),
	}

	styles := sc.Snapshot()
	for gi, g := range sc.Groups {
		jg := jsonGroup{Index: g.Index, Strokes: make([]jsonStroke, len(g.Strokes))}
		for si, s := range g.Strokes {
			js := jsonStroke{
				Layer:         s.Layer,
				D:             s.D,
				Length:        s.Length,
				Width:         s.Width,
				StrokeOpacity: s.StrokeOpacity,
				Color:         s.Color,
				Style:         styles[gi][si],
			}
			if r.geometry && s.Path != nil {
				for _, sub := range s.Path.Subpaths() {
					pts := make([][2]float64, len(sub))
					for i, p := range sub {
						pts[i] = [2]float64{p.X, p.Y}
					}
					js.Points = append(js.Points, pts)
				}
			}
			jg.Strokes[si] = js
		}
		out.Groups[gi] = jg
	}

	for i, in := range instrs {
		out.Instructions[i] = jsonInstruction{
			Group:          in.Group,
			Stroke:         in.Stroke,
			PositionMS:     in.Position.Milliseconds(),
			DelayMS:        in.Delay.Milliseconds(),
			DurationMS:     in.Duration.Milliseconds(),
			FromDashOffset: in.FromDashOffset,
			ToDashOffset:   in.ToDashOffset,
			FromOpacity:    in.FromOpacity,
			ToOpacity:      in.ToOpacity,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
