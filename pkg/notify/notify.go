// Package notify delivers transient user-facing status messages.
//
// Notifications are fire-and-forget: [Notifier.Notify] returns nothing and
// implementations must not block the caller for long. Front ends pick the
// implementation: the CLI prints styled lines, the server pushes them over
// websockets and, optionally, shares them between instances through Redis.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchreveal/pkg/errors"
)

// Severity categorizes a notification.
type Severity string

const (
	Success Severity = "success"
	Warning Severity = "warning"
	Danger  Severity = "danger"
	Info    Severity = "info"
)

// Notification is one status message.
type Notification struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
	Origin   string    `json:"origin,omitempty"`
}

// New creates a notification stamped with the current time.
func New(sev Severity, msg string) Notification {
	return Notification{Severity: sev, Message: msg, Time: time.Now()}
}

// SeverityOf maps an error to the severity it is shown with. Missing input
// is a warning; every other failure is danger.
func SeverityOf(err error) Severity {
	if errors.Is(err, errors.ErrCodeEmptyInput) {
		return Warning
	}
	return Danger
}

// FromError builds the notification for a failed user action.
func FromError(err error) Notification {
	return New(SeverityOf(err), errors.UserMessage(err))
}

// Notifier receives notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

// Notify calls f.
func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, Notification) {})

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(ctx, n)
		}
	}
}

// Log writes notifications to a charm logger, mapping severity to level.
type Log struct {
	Logger *log.Logger
}

// Notify implements Notifier.
func (l Log) Notify(_ context.Context, n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	switch n.Severity {
	case Danger:
		logger.Error(n.Message)
	case Warning:
		logger.Warn(n.Message)
	default:
		logger.Info(n.Message, "severity", string(n.Severity))
	}
}

// Recorder keeps every notification. It is safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
	ch  chan Notification
}

// NewRecorder creates a recorder whose C channel also receives every
// notification (buffered; drops when full).
func NewRecorder() *Recorder {
	return &Recorder{ch: make(chan Notification, 64)}
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
	if r.ch != nil {
		select {
		case r.ch <- n:
		default:
		}
	}
}

// C returns the notification stream, or nil for a zero Recorder.
func (r *Recorder) C() <-chan Notification { return r.ch }

// All returns a copy of everything recorded.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Reset forgets recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}
