package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/sketchreveal/pkg/buildinfo"
	"github.com/matzehuels/sketchreveal/pkg/observability"
)

// DefaultTimeout bounds a whole request including reading the body.
const DefaultTimeout = 120 * time.Second

// NewClient returns an http.Client whose transport reports every request
// to the registered HTTP hooks. A zero timeout uses DefaultTimeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &hookTransport{next: http.DefaultTransport},
	}
}

type hookTransport struct {
	next http.RoundTripper
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(ctx)
		req.Header.Set("User-Agent", buildinfo.UserAgent())
	}

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
