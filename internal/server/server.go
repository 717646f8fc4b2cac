// Package server is the web front end: a chi router serving the page, a
// JSON API over one shared studio, and a websocket hub that pushes scenes,
// frames and notifications to every open page.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/sketchreveal/pkg/demos"
	"github.com/matzehuels/sketchreveal/pkg/llm"
	"github.com/matzehuels/sketchreveal/pkg/notify"
	"github.com/matzehuels/sketchreveal/pkg/playback"
	"github.com/matzehuels/sketchreveal/pkg/render/sink"
	"github.com/matzehuels/sketchreveal/pkg/scene"
	"github.com/matzehuels/sketchreveal/pkg/studio"
	"github.com/matzehuels/sketchreveal/pkg/timeline"
)

const (
	// DefaultFrameInterval limits how often frames are pushed to clients.
	DefaultFrameInterval = 33 * time.Millisecond

	shutdownTimeout = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *log.Logger) Option          { return func(s *Server) { s.logger = l } }
func WithCatalog(c *demos.Catalog) Option      { return func(s *Server) { s.catalog = c } }
func WithDefaults(p playback.Params) Option    { return func(s *Server) { s.defaults = p } }
func WithFrameInterval(d time.Duration) Option { return func(s *Server) { s.frameInterval = d } }

// WithProvider preconfigures LLM credentials, as if saved from the page.
func WithProvider(p llm.Provider) Option {
	return func(s *Server) { s.provider = &p }
}

// WithRedis shares notifications with other instances over a pub/sub
// channel.
func WithRedis(client *redis.Client, channel string) Option {
	return func(s *Server) { s.redis, s.channel = client, channel }
}

// WithStudioOptions passes extra options to the studio, after the server's
// own.
func WithStudioOptions(opts ...studio.Option) Option {
	return func(s *Server) { s.studioOpts = append(s.studioOpts, opts...) }
}

// Server serves one studio to any number of browser pages.
type Server struct {
	logger        *log.Logger
	catalog       *demos.Catalog
	defaults      playback.Params
	provider      *llm.Provider
	frameInterval time.Duration
	redis         *redis.Client
	channel       string
	studioOpts    []studio.Option

	studio    *studio.Studio
	hub       *Hub
	publisher *notify.Redis
	handler   http.Handler

	mu        sync.Mutex
	lastFrame time.Time
	sceneMsg  []byte
	current   *timeline.Timeline
}

// New wires the studio, the hub and the router.
func New(opts ...Option) *Server {
	s := &Server{
		logger:        log.Default(),
		catalog:       demos.Builtin(),
		defaults:      playback.DefaultParams(),
		frameInterval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hub = NewHub(s.logger)
	s.hub.greet = s.greeting

	notifiers := notify.Multi{notify.Log{Logger: s.logger}, s.hub}
	if s.redis != nil {
		s.publisher = notify.NewRedis(s.redis, s.channel, s.logger)
		notifiers = append(notifiers, s.publisher)
	}

	sopts := []studio.Option{
		studio.WithLogger(s.logger),
		studio.WithNotifier(notifiers),
		studio.WithCatalog(s.catalog),
		studio.WithOnChange(func(st studio.State) { s.hub.Broadcast(MsgState, st) }),
		studio.WithPlaybackOptions(
			playback.OnScene(s.onScene),
			playback.WithTimelineOptions(timeline.OnFrame(s.onFrame)),
		),
	}
	s.studio = studio.New(append(sopts, s.studioOpts...)...)
	s.handler = s.routes()
	return s
}

// Studio returns the shared application state.
func (s *Server) Studio() *studio.Studio { return s.studio }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start applies preconfigured credentials and announces the provider
// state. Run calls it; tests driving ServeHTTP directly may call it too.
func (s *Server) Start(ctx context.Context) {
	if s.provider != nil {
		if err := s.studio.Configure(ctx, *s.provider); err != nil {
			s.logger.Warn("ignoring configured provider", "err", err)
		}
	}
	s.studio.Start(ctx)
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.Start(ctx)

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Subscribe(ctx, s.hub); err != nil {
				s.logger.Warn("redis subscription ended", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", "http://"+addr)

	select {
	case err := <-errc:
		s.close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) close() {
	s.studio.Close()
	s.hub.Close()
}

// =============================================================================
// Push
// =============================================================================

type framePayload struct {
	Timeline   string          `json:"timeline"`
	PositionMS int64           `json:"position_ms"`
	DurationMS int64           `json:"duration_ms"`
	State      timeline.State  `json:"state"`
	Styles     [][]scene.Style `json:"styles"`
}

func (s *Server) onScene(sc *scene.Scene, tl *timeline.Timeline) {
	data, err := sink.RenderJSON(sc, tl.Instructions())
	if err != nil {
		s.logger.Error("encode scene", "err", err)
		return
	}
	msg, err := encode(MsgScene, sceneEnvelope(tl.ID(), data))
	if err != nil {
		s.logger.Error("encode scene", "err", err)
		return
	}
	s.mu.Lock()
	s.sceneMsg = msg
	s.current = tl
	s.lastFrame = time.Time{}
	s.mu.Unlock()
	s.hub.broadcastRaw(msg)
}

// onFrame runs on timeline goroutines, sometimes under the playback
// controller's lock; it must not call back into the controller.
//
// It pushes at most one frame per interval while playing; state
// changes always go out.
func (s *Server) onFrame(f timeline.Frame) {
	now := time.Now()
	s.mu.Lock()
	if f.State == timeline.Playing && now.Sub(s.lastFrame) < s.frameInterval {
		s.mu.Unlock()
		return
	}
	s.lastFrame = now
	s.mu.Unlock()

	s.hub.Broadcast(MsgFrame, s.frame(f))
}

func (s *Server) frame(f timeline.Frame) framePayload {
	p := framePayload{
		Timeline:   f.Timeline,
		PositionMS: f.Position.Milliseconds(),
		DurationMS: f.Duration.Milliseconds(),
		State:      f.State,
	}
	s.mu.Lock()
	tl := s.current
	s.mu.Unlock()
	if tl != nil && tl.ID() == f.Timeline {
		p.Styles = tl.Scene().Snapshot()
	}
	return p
}

// greeting is what a new websocket client receives: the studio state, the
// current scene and its latest frame.
func (s *Server) greeting() [][]byte {
	var out [][]byte
	if msg, err := encode(MsgState, s.studio.State()); err == nil {
		out = append(out, msg)
	}
	s.mu.Lock()
	sceneMsg, tl := s.sceneMsg, s.current
	s.mu.Unlock()
	if sceneMsg == nil || tl == nil {
		return out
	}
	out = append(out, sceneMsg)
	f := timeline.Frame{Timeline: tl.ID(), Position: tl.Position(), Duration: tl.Duration(), State: tl.State()}
	if msg, err := encode(MsgFrame, s.frame(f)); err == nil {
		out = append(out, msg)
	}
	return out
}

type scenePayload struct {
	Timeline string          `json:"timeline"`
	Scene    json.RawMessage `json:"scene"`
}

func sceneEnvelope(id string, data []byte) scenePayload {
	return scenePayload{Timeline: id, Scene: data}
}
