// Package studio is the application state behind both front ends.
//
// A [Studio] owns what a single page of the tool holds: the provider
// credentials, the selected model, the prompt and SVG inputs, the state of
// the controls, the playback controller and the notifier. Every user action
// is a method. Actions recover their own errors: a failure becomes a
// notification, and the controls the action touched are restored in a
// deferred cleanup. The error is still returned so callers can set exit
// codes or HTTP statuses.
package studio

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchreveal/pkg/demos"
	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/llm"
	"github.com/matzehuels/sketchreveal/pkg/notify"
	"github.com/matzehuels/sketchreveal/pkg/playback"
	"github.com/matzehuels/sketchreveal/pkg/scene"
	"github.com/matzehuels/sketchreveal/pkg/timeline"
)

// Notification texts.
const (
	MsgConfigSaved   = "LLM configuration saved!"
	MsgConfigLoaded  = "LLM config loaded"
	MsgConfigMissing = "Click Config LLM to setup"
	MsgGenerated     = "SVG generated!"
	MsgDone          = "Animation done!"
	MsgReset         = "Reset"
)

// ErrBusy is returned by Generate while another generation is running.
var ErrBusy = errors.New(errors.ErrCodeInvalidInput, "generation already in progress")

// Controls is the enabled/busy state of the page controls.
type Controls struct {
	GenerateBusy   bool `json:"generateBusy"`
	AnimateEnabled bool `json:"animateEnabled"`
	ResetEnabled   bool `json:"resetEnabled"`
}

// State is a snapshot of the studio.
type State struct {
	Configured bool           `json:"configured"`
	BaseURL    string         `json:"baseUrl,omitempty"`
	Model      string         `json:"model"`
	Prompt     string         `json:"prompt"`
	SVG        string         `json:"svg"`
	Controls   Controls       `json:"controls"`
	Timeline   string         `json:"timeline,omitempty"`
	Playback   timeline.State `json:"playback"`
}

// GeneratorFactory builds a generator for a provider.
type GeneratorFactory func(llm.Provider) (llm.Generator, error)

// Option configures a Studio.
type Option func(*Studio)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Studio) { s.logger = l }
}

// WithNotifier sets where notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Studio) { s.notifier = n }
}

// WithCatalog sets the demo catalog.
func WithCatalog(c *demos.Catalog) Option {
	return func(s *Studio) { s.catalog = c }
}

// WithGeneratorFactory replaces how LLM clients are built.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(s *Studio) { s.newGenerator = f }
}

// WithPlaybackOptions passes options to the playback controller.
func WithPlaybackOptions(opts ...playback.Option) Option {
	return func(s *Studio) { s.playbackOpts = append(s.playbackOpts, opts...) }
}

// WithOnChange registers a listener called with a fresh snapshot after
// every action that changed state.
func WithOnChange(fn func(State)) Option {
	return func(s *Studio) { s.onChange = append(s.onChange, fn) }
}

// Studio is the application state.
type Studio struct {
	logger       *log.Logger
	notifier     notify.Notifier
	newGenerator GeneratorFactory
	playbackOpts []playback.Option
	onChange     []func(State)
	player       *playback.Controller

	mu       sync.Mutex
	provider *llm.Provider
	model    string
	prompt   string
	svg      string
	controls Controls
	catalog  *demos.Catalog
}

// New creates a studio with nothing configured.
func New(opts ...Option) *Studio {
	s := &Studio{
		logger:   log.Default(),
		notifier: notify.Discard,
		model:    llm.DefaultModel,
		catalog:  &demos.Catalog{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newGenerator == nil {
		s.newGenerator = func(p llm.Provider) (llm.Generator, error) {
			c, err := llm.NewClient(p, llm.WithLogger(s.logger))
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	popts := append([]playback.Option{
		playback.WithLogger(s.logger),
		playback.OnComplete(func(*timeline.Timeline) {
			s.notify(context.Background(), notify.New(notify.Success, MsgDone))
			s.changed()
		}),
	}, s.playbackOpts...)
	s.player = playback.New(popts...)
	return s
}

// Player returns the playback controller.
func (s *Studio) Player() *playback.Controller { return s.player }

// Scene returns the current render target, or nil.
func (s *Studio) Scene() *scene.Scene { return s.player.Scene() }

// Catalog returns the demo catalog.
func (s *Studio) Catalog() *demos.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// State returns a snapshot.
func (s *Studio) State() State {
	s.mu.Lock()
	st := State{
		Configured: s.provider != nil,
		Model:      s.model,
		Prompt:     s.prompt,
		SVG:        s.svg,
		Controls:   s.controls,
	}
	if s.provider != nil {
		st.BaseURL = s.provider.BaseURL
	}
	s.mu.Unlock()

	if tl := s.player.Active(); tl != nil {
		st.Timeline = tl.ID()
		st.Playback = tl.State()
	}
	return st
}

// Start announces whether a provider is configured, like the page does on
// load.
func (s *Studio) Start(ctx context.Context) {
	s.mu.Lock()
	configured := s.provider != nil
	s.mu.Unlock()
	if configured {
		s.notify(ctx, notify.New(notify.Info, MsgConfigLoaded))
	} else {
		s.notify(ctx, notify.New(notify.Info, MsgConfigMissing))
	}
}

// Configure validates and stores provider credentials. An empty model keeps
// the current selection.
func (s *Studio) Configure(ctx context.Context, p llm.Provider) error {
	p.BaseURL = strings.TrimSpace(p.BaseURL)
	p.APIKey = strings.TrimSpace(p.APIKey)
	if err := p.Validate(); err != nil {
		s.notify(ctx, notify.New(notify.Danger, "Failed to configure LLM: "+errors.UserMessage(err)))
		return err
	}

	s.mu.Lock()
	if m := strings.TrimSpace(p.Model); m != "" {
		s.model = m
	}
	p.Model = s.model
	s.provider = &p
	s.mu.Unlock()

	s.logger.Debug("provider configured", "base_url", p.BaseURL, "model", p.Model)
	s.notify(ctx, notify.New(notify.Success, MsgConfigSaved))
	s.changed()
	return nil
}

// SelectModel changes the model used for generation.
func (s *Studio) SelectModel(model string) {
	s.mu.Lock()
	if m := strings.TrimSpace(model); m != "" {
		s.model = m
		if s.provider != nil {
			s.provider.Model = m
		}
	}
	s.mu.Unlock()
	s.changed()
}

// SetPrompt replaces the prompt text.
func (s *Studio) SetPrompt(prompt string) {
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()
	s.changed()
}

// SetSVG replaces the SVG input text. Non-empty input enables Animate.
func (s *Studio) SetSVG(svg string) {
	s.mu.Lock()
	s.svg = svg
	if strings.TrimSpace(svg) != "" {
		s.controls.AnimateEnabled = true
	}
	s.mu.Unlock()
	s.changed()
}

// LoadDemo fills the prompt and SVG inputs from catalog card i.
func (s *Studio) LoadDemo(ctx context.Context, i int) (demos.Demo, error) {
	s.mu.Lock()
	d, err := s.catalog.Get(i)
	if err == nil {
		s.prompt = d.Prompt
		s.svg = d.SVG
		s.controls.AnimateEnabled = true
	}
	s.mu.Unlock()

	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "Unknown demo")
		s.notify(ctx, notify.FromError(err))
		return demos.Demo{}, err
	}
	s.changed()
	return d, nil
}

// Generate asks the provider for an SVG for the current prompt. On success
// the SVG input is replaced and Animate is enabled; on failure the SVG
// input is left as it was.
func (s *Studio) Generate(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.controls.GenerateBusy {
		s.mu.Unlock()
		return ErrBusy
	}
	prompt := strings.TrimSpace(s.prompt)
	var provider llm.Provider
	if s.provider != nil {
		provider = *s.provider
		provider.Model = s.model
	}
	configured := s.provider != nil

	// Claim the busy flag under the same lock as the check.
	invalid := errors.ValidatePrompt(prompt)
	if invalid == nil && configured {
		s.controls.GenerateBusy = true
	}
	s.mu.Unlock()

	if invalid != nil {
		s.notify(ctx, notify.FromError(invalid))
		return invalid
	}
	if !configured {
		err := errors.New(errors.ErrCodeConfiguration, "LLM provider is not configured")
		s.notify(ctx, notify.New(notify.Danger, "Error: "+errors.UserMessage(err)))
		return err
	}

	s.changed()
	defer func() {
		s.setBusy(false)
		if err != nil {
			s.notify(ctx, notify.New(notify.SeverityOf(err), "Error: "+errors.UserMessage(err)))
		}
	}()

	gen, err := s.newGenerator(provider)
	if err != nil {
		return err
	}
	svg, err := gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Debug("generation failed", "err", err)
		return err
	}

	s.mu.Lock()
	s.svg = svg
	s.controls.AnimateEnabled = true
	s.mu.Unlock()

	s.notify(ctx, notify.New(notify.Success, MsgGenerated))
	return nil
}

func (s *Studio) setBusy(busy bool) {
	s.mu.Lock()
	s.controls.GenerateBusy = busy
	s.mu.Unlock()
	s.changed()
}

// Animate builds and plays the current SVG input. Success enables Reset;
// failure leaves the controls as they were.
func (s *Studio) Animate(ctx context.Context, p playback.Params) (*timeline.Timeline, error) {
	s.mu.Lock()
	svg := s.svg
	s.mu.Unlock()

	tl, err := s.player.Animate(ctx, svg, p)
	if err != nil {
		s.notify(ctx, notify.FromError(err))
		s.changed()
		return nil, err
	}

	s.mu.Lock()
	s.controls.ResetEnabled = true
	s.mu.Unlock()
	s.changed()
	return tl, nil
}

// Reset rewinds the current animation. It does nothing before the first
// successful Animate.
func (s *Studio) Reset(ctx context.Context) {
	if s.player.Scene() == nil {
		return
	}
	s.player.Reset(ctx)
	s.notify(ctx, notify.New(notify.Info, MsgReset))
	s.changed()
}

// Close stops playback.
func (s *Studio) Close() {
	s.player.Stop()
}

func (s *Studio) notify(ctx context.Context, n notify.Notification) {
	s.notifier.Notify(ctx, n)
}

func (s *Studio) changed() {
	if len(s.onChange) == 0 {
		return
	}
	st := s.State()
	for _, fn := range s.onChange {
		fn(st)
	}
}
