package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// transientError marks a failure worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable. Backoff.Do retries nothing else.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// CheckStatus turns a non-2xx response into an error. 429 and 5xx are
// transient.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := fmt.Errorf("%s %s: status %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Transient(err)
	}
	return err
}

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration // 0 means no cap
}

// DefaultBackoff is used for startup loading: 3 attempts from 500ms.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 500 * time.Millisecond, Max: 4 * time.Second}

// Do runs fn until it succeeds, fails permanently or attempts run out.
// Cancelling ctx while waiting returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := b.Initial
	var err error
	for i := range max(b.Attempts, 1) {
		if i > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
			delay *= 2
			if b.Max > 0 {
				delay = min(delay, b.Max)
			}
		}
		if err = fn(ctx); err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}
