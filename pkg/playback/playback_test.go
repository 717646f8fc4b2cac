package playback

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/geom"
	"github.com/matzehuels/sketchreveal/pkg/rough"
	"github.com/matzehuels/sketchreveal/pkg/timeline"
)

const threePaths = `<svg viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg">
  <path d="M10 10 L90 10"/>
  <path d="M10 50 L90 50"/>
  <path d="M10 90 Q50 60 90 90"/>
</svg>`

func newController(opts ...Option) *Controller {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return New(opts...)
}

func params(r float64, dur time.Duration, mode choreo.Mode) Params {
	p := DefaultParams()
	p.Jitter = r
	p.Duration = dur
	p.Mode = mode
	return p
}

func TestThreePathsSimultaneous(t *testing.T) {
	c := newController()
	tl, err := c.Prepare(context.Background(), threePaths, params(1, 3*time.Second, choreo.Simultaneous))
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	sc := tl.Scene()
	if len(sc.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(sc.Groups))
	}
	for i, g := range sc.Groups {
		if g.Index != i || len(g.Strokes) != 1 {
			t.Errorf("group %d: index=%d strokes=%d", i, g.Index, len(g.Strokes))
		}
	}
	instrs := tl.Instructions()
	if len(instrs) != 3 {
		t.Fatalf("instructions = %d, want 3", len(instrs))
	}
	for _, in := range instrs {
		if in.Position != 0 || in.Delay != 0 || in.Duration != 3*time.Second {
			t.Errorf("group %d: position=%v delay=%v duration=%v", in.Group, in.Position, in.Delay, in.Duration)
		}
	}
	if sc.ViewBox != "0 0 100 100" {
		t.Errorf("ViewBox = %q", sc.ViewBox)
	}
	if !sc.AllUndrawn() {
		t.Error("prepared scene should start undrawn")
	}
}

func TestAnimateInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.Code
	}{
		{"empty", "", errors.ErrCodeEmptyInput},
		{"malformed", "<svg><path></svg>", errors.ErrCodeInvalidInput},
		{"wrong root", `<g><path d="M0 0 L1 1"/></g>`, errors.ErrCodeInvalidInput},
		{"no paths", `<svg><circle r="4"/></svg>`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController()
			tl, err := c.Animate(context.Background(), tt.source, DefaultParams())
			if err == nil || tl != nil {
				t.Fatalf("Animate() = %v, %v; want error", tl, err)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
			if c.Active() != nil || c.Scene() != nil {
				t.Error("failed animate should leave no timeline")
			}
		})
	}
}

func TestAnimateRejectsBadParams(t *testing.T) {
	for _, p := range []Params{
		{Jitter: -1, Width: 2, Mode: choreo.Simultaneous},
		{Jitter: 1, Width: -2, Mode: choreo.Simultaneous},
		{Jitter: 1, Width: 2, Duration: -time.Second, Mode: choreo.Simultaneous},
		{Jitter: 1, Width: 2, Mode: 7},
	} {
		if _, err := newController().Animate(context.Background(), threePaths, p); !errors.IsInputValidation(err) {
			t.Errorf("Animate(%+v) error = %v, want input validation", p, err)
		}
	}
}

func TestAnimatePreemptsPrevious(t *testing.T) {
	completed := make(chan *timeline.Timeline, 4)
	c := newController(
		WithTimelineOptions(timeline.WithTick(time.Millisecond)),
		OnComplete(func(tl *timeline.Timeline) { completed <- tl }),
	)
	first, err := c.Animate(context.Background(), threePaths, params(0.5, time.Hour, choreo.Sequential))
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Animate(context.Background(), threePaths, params(0.5, 30*time.Millisecond, choreo.Simultaneous))
	if err != nil {
		t.Fatal(err)
	}
	if first.State() == timeline.Playing {
		t.Error("first timeline should be paused")
	}
	if c.Active() != second || c.Scene() != second.Scene() {
		t.Error("second timeline should be active")
	}

	select {
	case tl := <-completed:
		if tl != second {
			t.Errorf("completion from discarded timeline %s", tl.ID())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second timeline did not complete")
	}
	if !second.Scene().AllDrawn() {
		t.Error("completed scene should be drawn")
	}

	// A failed animate also discards the active timeline.
	if _, err := c.Animate(context.Background(), "", DefaultParams()); err == nil {
		t.Fatal("expected error")
	}
	if c.Active() != nil {
		t.Error("active timeline should be discarded")
	}
}

func TestAnimateOutlivesRequestContext(t *testing.T) {
	c := newController(WithTimelineOptions(timeline.WithTick(time.Millisecond)))
	ctx, cancel := context.WithCancel(context.Background())
	tl, err := c.Animate(ctx, threePaths, params(1, 40*time.Millisecond, choreo.Cascading))
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case <-tl.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timeline stopped with its request context")
	}
}

func TestResetFromEveryState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, c *Controller)
	}{
		{
			name: "never started",
			setup: func(t *testing.T, c *Controller) {
				if _, err := c.Prepare(context.Background(), threePaths, params(3, time.Second, choreo.Simultaneous)); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "paused mid-flight",
			setup: func(t *testing.T, c *Controller) {
				tl, err := c.Prepare(context.Background(), threePaths, params(3, time.Second, choreo.Sequential))
				if err != nil {
					t.Fatal(err)
				}
				tl.Advance(400 * time.Millisecond)
			},
		},
		{
			name: "playing",
			setup: func(t *testing.T, c *Controller) {
				if _, err := c.Animate(context.Background(), threePaths, params(2, time.Hour, choreo.Cascading)); err != nil {
					t.Fatal(err)
				}
				time.Sleep(10 * time.Millisecond)
			},
		},
		{
			name: "completed",
			setup: func(t *testing.T, c *Controller) {
				tl, err := c.Prepare(context.Background(), threePaths, params(1.5, time.Second, choreo.Simultaneous))
				if err != nil {
					t.Fatal(err)
				}
				tl.Advance(time.Minute)
				if !tl.Scene().AllDrawn() {
					t.Fatal("setup: scene should be drawn")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(WithTimelineOptions(timeline.WithTick(time.Millisecond)))
			tt.setup(t, c)
			c.Reset(context.Background())

			tl := c.Active()
			if tl.State() == timeline.Playing {
				t.Error("timeline should not be playing after reset")
			}
			if tl.Position() != 0 {
				t.Errorf("position = %v, want 0", tl.Position())
			}
			if !c.Scene().AllUndrawn() {
				t.Error("every stroke should be undrawn after reset")
			}
		})
	}
}

func TestResetWithoutTimeline(t *testing.T) {
	c := newController()
	c.Reset(context.Background())
	if c.Active() != nil || c.Scene() != nil {
		t.Error("reset should not create state")
	}
}

func TestStop(t *testing.T) {
	c := newController()
	tl, err := c.Animate(context.Background(), threePaths, params(1, time.Hour, choreo.Simultaneous))
	if err != nil {
		t.Fatal(err)
	}
	c.Stop()
	if tl.State() == timeline.Playing || c.Active() != nil {
		t.Error("Stop should pause and discard")
	}
}

func TestBuildRejectsOverlongPaths(t *testing.T) {
	c := newController()

	_, err := c.Build(`<svg viewBox="0 0 100 100"><path d="M0 0 L1000000 0"/></svg>`, DefaultParams())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Build() error = %v, want invalid input", err)
	}

	sc, err := c.Build(`<svg viewBox="0 0 100 100">
  <path d="M0 0 L1000000 0"/>
  <path d="M10 10 L90 90"/>
</svg>`, DefaultParams())
	if err != nil {
		t.Fatalf("Build() with one sketchable path: %v", err)
	}
	if len(sc.Groups) != 1 || sc.Groups[0].Index != 1 {
		t.Errorf("groups = %+v, want only path 1", sc.Groups)
	}
}

func TestBuildHugeCoordinatesStayBounded(t *testing.T) {
	const d = "M0 0 L1e15 0"
	c := newController()
	_, err := c.Build(`<svg><path d="`+d+`"/></svg>`, DefaultParams())
	if err != nil {
		if !errors.IsInputValidation(err) {
			t.Fatalf("Build() error = %v, want input validation", err)
		}
		return
	}
	// Coordinates past the fixed-point range may wrap to a short path;
	// anything that was sketched must have passed the length check.
	src, perr := geom.ParseSVGPath(d)
	if perr != nil || rough.CheckLength(src.Length()) != nil {
		t.Errorf("overlong path was sketched (parse err %v)", perr)
	}
}
