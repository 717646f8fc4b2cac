package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level; failures
// are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) logger() *log.Logger {
	if h.Logger == nil {
		return log.Default()
	}
	return h.Logger
}

func (h LogHooks) OnAnimateStart(_ context.Context, timeline string, groups, strokes int, mode string) {
	h.logger().Debug("animate start", "timeline", timeline, "groups", groups, "strokes", strokes, "mode", mode)
}

func (h LogHooks) OnAnimateComplete(_ context.Context, timeline string, d time.Duration) {
	h.logger().Debug("animate complete", "timeline", timeline, "duration", d)
}

func (h LogHooks) OnAnimateError(_ context.Context, err error) {
	h.logger().Warn("animate rejected", "err", err)
}

func (h LogHooks) OnReset(_ context.Context, timeline string) {
	h.logger().Debug("reset", "timeline", timeline)
}

func (h LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger().Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger().Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger().Warn("http error", "method", method, "host", host, "path", path, "err", err)
}
