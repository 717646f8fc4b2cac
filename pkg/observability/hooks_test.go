package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPlaybackHooks{}
	p.OnAnimateStart(ctx, "tl", 3, 6, "simultaneous")
	p.OnAnimateComplete(ctx, "tl", time.Second)
	p.OnAnimateError(ctx, errors.New("boom"))
	p.OnReset(ctx, "tl")

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "api.openai.com", "/v1/chat/completions")
	h.OnResponse(ctx, "POST", "api.openai.com", "/v1/chat/completions", 200, time.Second)
	h.OnError(ctx, "POST", "api.openai.com", "/v1/chat/completions", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Playback() should default to NoopPlaybackHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	pb := &testPlaybackHooks{}
	SetPlaybackHooks(pb)
	if Playback() != pb {
		t.Error("SetPlaybackHooks should set custom hooks")
	}
	hh := &testHTTPHooks{}
	SetHTTPHooks(hh)
	if HTTP() != hh {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	SetPlaybackHooks(nil)
	if Playback() != pb {
		t.Error("SetPlaybackHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Reset() should restore NoopPlaybackHooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	pb := &testPlaybackHooks{}
	SetPlaybackHooks(pb)
	Playback().OnAnimateStart(context.Background(), "tl-1", 2, 4, "sequential")
	Playback().OnReset(context.Background(), "tl-1")
	if pb.starts != 1 || pb.resets != 1 || pb.lastMode != "sequential" {
		t.Errorf("hooks = %+v", pb)
	}
}

type testPlaybackHooks struct {
	NoopPlaybackHooks
	starts, resets int
	lastMode       string
}

func (h *testPlaybackHooks) OnAnimateStart(_ context.Context, _ string, _, _ int, mode string) {
	h.starts++
	h.lastMode = mode
}

func (h *testPlaybackHooks) OnReset(context.Context, string) { h.resets++ }

type testHTTPHooks struct {
	NoopHTTPHooks
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	SetPlaybackHooks(LogHooks{Logger: logger})
	SetHTTPHooks(LogHooks{Logger: logger})
	t.Cleanup(Reset)

	ctx := context.Background()
	Playback().OnAnimateStart(ctx, "tl-1", 2, 5, "cascading")
	Playback().OnReset(ctx, "tl-1")
	HTTP().OnResponse(ctx, "POST", "api.openai.com", "/v1/chat/completions", 200, time.Second)

	out := buf.String()
	for _, want := range []string{"animate start", "strokes=5", "mode=cascading", "reset", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
