// Package playback turns SVG documents into running sketch animations.
//
// A [Controller] owns at most one active timeline. [Controller.Animate]
// always stops and discards the previous timeline before building a new
// scene, so the last call wins. [Controller.Reset] rewinds the active
// timeline and forces every stroke back to its undrawn style.
package playback

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/geom"
	"github.com/matzehuels/sketchreveal/pkg/observability"
	"github.com/matzehuels/sketchreveal/pkg/rough"
	"github.com/matzehuels/sketchreveal/pkg/scene"
	"github.com/matzehuels/sketchreveal/pkg/stroke"
	"github.com/matzehuels/sketchreveal/pkg/svgdoc"
	"github.com/matzehuels/sketchreveal/pkg/timeline"
)

// Params are the user controls of one animate call.
type Params struct {
	Jitter   float64       // r
	Width    float64       // w
	Color    string        // stroke color
	Duration time.Duration // total budget
	Mode     choreo.Mode
}

// DefaultParams mirrors the initial control values.
func DefaultParams() Params {
	return Params{
		Jitter:   2,
		Width:    2,
		Color:    "#000000",
		Duration: 3000 * time.Millisecond,
		Mode:     choreo.Simultaneous,
	}
}

// Validate rejects control values the builder cannot use.
func (p Params) Validate() error {
	if err := errors.ValidateNonNegative("jitter", p.Jitter); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("width", p.Width); err != nil {
		return err
	}
	if p.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "duration must be >= 0, got %s", p.Duration)
	}
	if !p.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown choreography mode %d", int(p.Mode))
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRand sets the random source used for roughening. Tests use a seeded
// PCG source; the default is the global source.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithTimelineOptions adds options applied to every timeline built.
func WithTimelineOptions(opts ...timeline.Option) Option {
	return func(c *Controller) { c.tlOpts = append(c.tlOpts, opts...) }
}

// OnComplete registers a callback run when a timeline finishes. Discarded
// timelines never call it.
func OnComplete(fn func(*timeline.Timeline)) Option {
	return func(c *Controller) { c.onComplete = append(c.onComplete, fn) }
}

// OnScene registers a callback run whenever a new scene replaces the old
// one, before its timeline starts.
func OnScene(fn func(*scene.Scene, *timeline.Timeline)) Option {
	return func(c *Controller) { c.onScene = append(c.onScene, fn) }
}

// Controller drives a single active timeline.
type Controller struct {
	logger     *log.Logger
	rng        *rand.Rand
	tlOpts     []timeline.Option
	onComplete []func(*timeline.Timeline)
	onScene    []func(*scene.Scene, *timeline.Timeline)

	mu      sync.Mutex
	rngMu   sync.Mutex
	active  *timeline.Timeline
	discard chan struct{}
	scene   *scene.Scene
}

// New creates a controller with no active timeline.
func New(opts ...Option) *Controller {
	c := &Controller{logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns the active timeline, or nil.
func (c *Controller) Active() *timeline.Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Scene returns the current render target, or nil before the first
// successful Animate.
func (c *Controller) Scene() *scene.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

// Build parses source and builds one stroke group per renderable path in
// document order. It does not touch the active timeline.
func (c *Controller) Build(source string, p Params) (*scene.Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	doc, err := svgdoc.Parse(source)
	if err != nil {
		return nil, err
	}

	opts := stroke.Options{Jitter: p.Jitter, Width: p.Width, Color: p.Color}
	groups := make([]stroke.Group, 0, len(doc.Paths))

	var skipped error
	c.rngMu.Lock()
	for _, sp := range doc.Paths {
		src, err := geom.ParseSVGPath(sp.D)
		if err == nil {
			err = rough.CheckLength(src.Length())
		}
		if err != nil {
			c.logger.Debug("skipping path", "index", sp.Index, "err", err)
			if skipped == nil {
				skipped = err
			}
			continue
		}
		groups = append(groups, stroke.Build(src, sp.Index, opts, c.rng))
	}
	c.rngMu.Unlock()

	if stroke.Count(groups) == 0 {
		if skipped != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, skipped, "No paths to animate")
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "No paths to animate")
	}
	return scene.New(doc.ViewBox, groups), nil
}

// Animate stops any active timeline, builds a fresh scene from source and
// starts a new timeline on it. Invalid input leaves no active timeline.
//
// The timeline outlives ctx cancellation: it runs until it completes or is
// replaced, reset or stopped.
func (c *Controller) Animate(ctx context.Context, source string, p Params) (*timeline.Timeline, error) {
	tl, err := c.install(ctx, source, p)
	if err != nil {
		return nil, err
	}
	tl.Play(context.WithoutCancel(ctx))
	return tl, nil
}

// Prepare is Animate without starting playback. The timeline is active and
// positioned at 0; callers step it with Advance or Seek, or Play it.
func (c *Controller) Prepare(ctx context.Context, source string, p Params) (*timeline.Timeline, error) {
	return c.install(ctx, source, p)
}

func (c *Controller) install(ctx context.Context, source string, p Params) (*timeline.Timeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.discardLocked()

	sc, err := c.Build(source, p)
	if err != nil {
		observability.Playback().OnAnimateError(ctx, err)
		return nil, err
	}
	instrs, err := choreo.Plan(sc.Groups, p.Duration, p.Mode)
	if err != nil {
		observability.Playback().OnAnimateError(ctx, err)
		return nil, err
	}

	opts := append([]timeline.Option{timeline.WithLogger(c.logger)}, c.tlOpts...)
	tl := timeline.New(sc, instrs, opts...)
	c.scene = sc
	c.active = tl
	c.discard = make(chan struct{})

	for _, fn := range c.onScene {
		fn(sc, tl)
	}

	c.logger.Debug("animating",
		"timeline", tl.ID(),
		"groups", len(sc.Groups),
		"strokes", sc.StrokeCount(),
		"mode", p.Mode,
		"duration", tl.Duration())
	observability.Playback().OnAnimateStart(ctx, tl.ID(), len(sc.Groups), sc.StrokeCount(), p.Mode.String())

	go c.watch(context.WithoutCancel(ctx), tl, c.discard)
	return tl, nil
}

// watch reports completion of tl unless it is discarded first.
func (c *Controller) watch(ctx context.Context, tl *timeline.Timeline, discard <-chan struct{}) {
	select {
	case <-tl.Done():
	case <-discard:
		return
	}
	// Discard may race with completion; the lock settles it.
	c.mu.Lock()
	current := c.active == tl
	c.mu.Unlock()
	if !current {
		return
	}
	observability.Playback().OnAnimateComplete(ctx, tl.ID(), tl.Duration())
	for _, fn := range c.onComplete {
		fn(tl)
	}
}

func (c *Controller) discardLocked() {
	if c.active == nil {
		return
	}
	c.active.Pause()
	close(c.discard)
	c.logger.Debug("timeline discarded", "timeline", c.active.ID())
	c.active = nil
	c.discard = nil
}

// Reset pauses the active timeline, seeks it to the start and forces every
// stroke to its undrawn style. Without an active timeline the current
// scene, if any, is still undrawn.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := ""
	if c.active != nil {
		id = c.active.ID()
		c.active.Pause()
		c.active.Seek(0)
	}
	if c.scene != nil {
		c.scene.Undraw()
	}
	observability.Playback().OnReset(ctx, id)
}

// Stop pauses and discards the active timeline.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardLocked()
}
