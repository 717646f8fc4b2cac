// Package cli implements the sketchreveal command-line interface.
//
// The commands animate local SVG files into animated SVG, PNG, PDF or JSON,
// play them back in the terminal, generate new drawings through an
// OpenAI-compatible provider, browse the demo catalog, and serve the web
// front end. The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
//   - animate: render a drawing to one or more output formats
//   - play: live terminal playback with per-path progress bars
//   - generate: ask the configured provider for a new drawing
//   - demos: list, show or pick demo cards
//   - serve: run the web front end
//   - notifications: tail notifications shared over redis
//   - config: print the resolved configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so library calls log under the command.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled, timestamped ("14:32:01.45") lines to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a command step took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
