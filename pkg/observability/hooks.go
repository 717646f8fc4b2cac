// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. Binaries register implementations once at startup:
//
//	observability.SetPlaybackHooks(observability.LogHooks{Logger: logger})
//	observability.SetHTTPHooks(observability.LogHooks{Logger: logger})
//
// and libraries call them:
//
//	observability.Playback().OnAnimateStart(ctx, id, groups, strokes, mode)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives animation lifecycle events.
type PlaybackHooks interface {
	// OnAnimateStart fires when a new timeline starts playing.
	OnAnimateStart(ctx context.Context, timeline string, groups, strokes int, mode string)

	// OnAnimateComplete fires when a timeline reaches its end.
	OnAnimateComplete(ctx context.Context, timeline string, duration time.Duration)

	// OnAnimateError fires when an animate request is rejected.
	OnAnimateError(ctx context.Context, err error)

	// OnReset fires when the active timeline is rewound.
	OnReset(ctx context.Context, timeline string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from outgoing HTTP requests (LLM provider,
// remote demo catalogs).
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlaybackHooks ignores every event.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnAnimateStart(context.Context, string, int, int, string) {}
func (NoopPlaybackHooks) OnAnimateComplete(context.Context, string, time.Duration) {}
func (NoopPlaybackHooks) OnAnimateError(context.Context, error)                    {}
func (NoopPlaybackHooks) OnReset(context.Context, string)                          {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPlaybackHooks registers playback hooks. Nil is ignored.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	playbackHooks = NoopPlaybackHooks{}
	httpHooks = NoopHTTPHooks{}
}
