package cli

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/playback"
	"github.com/matzehuels/sketchreveal/pkg/studio"
	"github.com/matzehuels/sketchreveal/pkg/timeline"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGroupProgress(t *testing.T) {
	instrs := []choreo.Instruction{
		{Group: 0, Position: 0, Duration: time.Second},
		{Group: 0, Position: 0, Delay: 100 * time.Millisecond, Duration: time.Second},
		{Group: 1, Position: time.Second, Duration: time.Second},
	}
	tests := []struct {
		gi   int
		pos  time.Duration
		want float64
	}{
		{0, 0, 0},
		{0, 550 * time.Millisecond, 0.5},
		{0, 2 * time.Second, 1},
		{1, 500 * time.Millisecond, 0},
		{1, 1500 * time.Millisecond, 0.5},
		{2, time.Second, 0},
	}
	for _, tt := range tests {
		if got := groupProgress(instrs, tt.gi, tt.pos); got != tt.want {
			t.Errorf("groupProgress(g%d, %s) = %v, want %v", tt.gi, tt.pos, got, tt.want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		frac         float64
		full, hollow int
	}{
		{0, 0, 10},
		{0.5, 5, 5},
		{1, 10, 0},
		{1.5, 10, 0},
	}
	for _, tt := range tests {
		bar := renderBar(tt.frac, 10)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("renderBar(%v) filled = %d, want %d", tt.frac, got, tt.full)
		}
		if got := strings.Count(bar, "░"); got != tt.hollow {
			t.Errorf("renderBar(%v) empty = %d, want %d", tt.frac, got, tt.hollow)
		}
	}
}

func newTestPlayModel(t *testing.T) (PlayModel, *playback.Controller) {
	t.Helper()
	ctx := context.Background()
	ctrl := playback.New(playback.WithRand(rand.New(rand.NewPCG(3, 3))))
	t.Cleanup(ctrl.Stop)

	p := playback.DefaultParams()
	p.Duration = 30 * time.Second
	tl, err := ctrl.Prepare(ctx, testSVG, p)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return NewPlayModel(ctx, ctrl, tl, "lines"), ctrl
}

func TestPlayModelKeys(t *testing.T) {
	m, ctrl := newTestPlayModel(t)

	next, _ := m.Update(key(" "))
	m = next.(PlayModel)
	if got := m.tl.State(); got != timeline.Playing {
		t.Fatalf("after space: state = %v, want playing", got)
	}

	next, _ = m.Update(key(" "))
	m = next.(PlayModel)
	if got := m.tl.State(); got != timeline.Paused {
		t.Fatalf("after second space: state = %v, want paused", got)
	}

	m.tl.Seek(10 * time.Second)
	next, _ = m.Update(key("r"))
	m = next.(PlayModel)
	if m.tl.Position() != 0 {
		t.Errorf("after reset: position = %s, want 0", m.tl.Position())
	}
	if !ctrl.Scene().AllUndrawn() {
		t.Error("after reset: scene should be undrawn")
	}
	if m.notice != studio.MsgReset {
		t.Errorf("notice = %q, want %q", m.notice, studio.MsgReset)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPlayModelCompletion(t *testing.T) {
	m, _ := newTestPlayModel(t)
	m.tl.Seek(m.tl.Duration())

	next, _ := m.Update(playTickMsg(time.Now()))
	m = next.(PlayModel)
	if !m.done || m.notice != studio.MsgDone {
		t.Errorf("done = %v, notice = %q", m.done, m.notice)
	}

	view := m.View()
	for _, want := range []string{"lines", "path 0", "path 1", "100%", studio.MsgDone} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
