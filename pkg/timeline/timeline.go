// Package timeline executes a choreography plan against a scene.
//
// A [Timeline] is a finite schedule: at any position t it writes every
// instruction's interpolated style into the scene. It can be driven in real
// time by [Timeline.Play], which runs a ticker goroutine, or stepped
// deterministically with [Timeline.Advance] and [Timeline.Seek].
//
// [Timeline.Done] is closed the first time the position reaches the end of
// the schedule, after every stroke has been set to its final style.
package timeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/scene"
)

// DefaultTick is the real-time frame interval (about 60 fps).
const DefaultTick = 16 * time.Millisecond

// State is the playback state of a timeline.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{Idle, Playing, Paused, Completed} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown timeline state %q", b)
}

// Frame describes the timeline right after styles were written.
type Frame struct {
	Timeline string        `json:"timeline"`
	Position time.Duration `json:"position"`
	Duration time.Duration `json:"duration"`
	State    State         `json:"state"`
}

// Progress is Position/Duration in [0, 1].
func (f Frame) Progress() float64 {
	if f.Duration <= 0 {
		return 1
	}
	return min(1, float64(f.Position)/float64(f.Duration))
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithTick sets the real-time frame interval.
func WithTick(d time.Duration) Option {
	return func(t *Timeline) {
		if d > 0 {
			t.tick = d
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(t *Timeline) { t.logger = l }
}

// OnFrame registers a listener called after every frame. Listeners run on
// the goroutine that moved the timeline and must not block.
func OnFrame(fn func(Frame)) Option {
	return func(t *Timeline) { t.listeners = append(t.listeners, fn) }
}

// Timeline is the live animation state.
type Timeline struct {
	id       string
	scene    *scene.Scene
	instrs   []choreo.Instruction
	duration time.Duration
	tick     time.Duration
	logger   *log.Logger

	listeners []func(Frame)

	mu    sync.Mutex
	pos   time.Duration
	state State
	gen   uint64        // bumped whenever the running goroutine must stop
	stop  chan struct{} // closed to stop the running goroutine
	done  chan struct{}
	fired bool
}

// New creates an idle timeline positioned at 0.
func New(sc *scene.Scene, instrs []choreo.Instruction, opts ...Option) *Timeline {
	t := &Timeline{
		id:       uuid.NewString(),
		scene:    sc,
		instrs:   instrs,
		duration: choreo.Span(instrs),
		tick:     DefaultTick,
		logger:   log.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID uniquely identifies the timeline.
func (t *Timeline) ID() string { return t.id }

// Duration is the total schedule length.
func (t *Timeline) Duration() time.Duration { return t.duration }

// Instructions returns the schedule.
func (t *Timeline) Instructions() []choreo.Instruction { return t.instrs }

// Scene returns the render target.
func (t *Timeline) Scene() *scene.Scene { return t.scene }

// Done is closed once the timeline has reached its end.
func (t *Timeline) Done() <-chan struct{} { return t.done }

// Position returns the current position.
func (t *Timeline) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// State returns the current state.
func (t *Timeline) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Play starts real-time playback from the current position. It returns
// immediately; the timeline stops when ctx is cancelled, on Pause, or at
// the end. Playing a timeline that is already at its end does nothing.
func (t *Timeline) Play(ctx context.Context) {
	t.mu.Lock()
	if t.state == Playing || (t.state == Completed && t.pos >= t.duration) {
		t.mu.Unlock()
		return
	}
	t.state = Playing
	t.gen++
	gen := t.gen
	t.stop = make(chan struct{})
	stop := t.stop
	t.mu.Unlock()

	t.logger.Debug("timeline playing", "id", t.id, "position", t.Position(), "duration", t.duration)
	go t.run(ctx, gen, stop)
}

func (t *Timeline) run(ctx context.Context, gen uint64, stop <-chan struct{}) {
	// Write the starting frame right away so a zero-length schedule
	// completes without waiting for a tick.
	if t.step(gen, 0) {
		return
	}
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			if t.gen == gen && t.state == Playing {
				t.state = Paused
				t.gen++
			}
			t.mu.Unlock()
			return
		case <-stop:
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			if t.step(gen, delta) {
				return
			}
		}
	}
}

// step advances a playing timeline owned by gen. It reports whether the
// goroutine should exit.
func (t *Timeline) step(gen uint64, delta time.Duration) bool {
	t.mu.Lock()
	if t.gen != gen || t.state != Playing {
		t.mu.Unlock()
		return true
	}
	frame, finished := t.moveLocked(t.pos + delta)
	t.mu.Unlock()
	t.emit(frame, finished)
	return frame.State == Completed
}

// Pause stops real-time playback, keeping the current position.
func (t *Timeline) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
	if t.state == Playing {
		t.state = Paused
	}
}

func (t *Timeline) haltLocked() {
	t.gen++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Seek moves to position d (clamped to the schedule) and writes the styles
// for that position. A playing timeline keeps playing from there.
func (t *Timeline) Seek(d time.Duration) {
	t.mu.Lock()
	if t.state == Completed && d < t.duration {
		t.state = Paused
	}
	frame, finished := t.moveLocked(d)
	t.mu.Unlock()
	t.emit(frame, finished)
}

// Advance steps the position forward by d. It is the deterministic
// counterpart of Play.
func (t *Timeline) Advance(d time.Duration) {
	t.mu.Lock()
	frame, finished := t.moveLocked(t.pos + d)
	t.mu.Unlock()
	t.emit(frame, finished)
}

// moveLocked writes the styles for position d and handles completion.
func (t *Timeline) moveLocked(d time.Duration) (Frame, bool) {
	t.pos = min(max(d, 0), t.duration)
	for _, in := range t.instrs {
		off, op := in.At(t.pos)
		t.scene.Set(scene.Ref{Group: in.Group, Stroke: in.Stroke}, scene.Style{DashOffset: off, Opacity: op})
	}
	finished := false
	if t.pos >= t.duration {
		if t.state == Playing {
			t.haltLocked()
		}
		t.state = Completed
		finished = !t.fired
		t.fired = true
	} else if t.state == Idle {
		t.state = Paused
	}
	return Frame{Timeline: t.id, Position: t.pos, Duration: t.duration, State: t.state}, finished
}

func (t *Timeline) emit(f Frame, finished bool) {
	for _, fn := range t.listeners {
		fn(f)
	}
	if finished {
		t.logger.Debug("timeline completed", "id", t.id, "duration", t.duration)
		close(t.done)
	}
}
