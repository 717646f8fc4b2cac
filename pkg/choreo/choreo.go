// Package choreo schedules stroke animations.
//
// A [Plan] assigns every stroke of every group a start time and a duration
// under one of three modes:
//
//   - [Simultaneous]: all groups start together; strokes within a group are
//     staggered by 100ms and run for the full duration.
//   - [Sequential]: each group gets dur/n; group starts advance by 80% of
//     that slice so neighbours overlap; strokes are staggered by 50ms.
//   - [Cascading]: group starts advance by 30% of dur/n; every stroke runs
//     for 80% of dur with the 100ms stagger.
//
// Every instruction sweeps the stroke's dash offset from its length to zero
// and its opacity from 0 to 1 on an ease-in-out-quad curve, so executing
// the full plan always leaves every stroke drawn.
package choreo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/stroke"
)

// Mode is a choreography policy.
type Mode int

const (
	Simultaneous Mode = 1
	Sequential   Mode = 2
	Cascading    Mode = 3
)

const (
	simultaneousStagger = 100 * time.Millisecond
	sequentialStagger   = 50 * time.Millisecond
	sequentialAdvance   = 0.8
	cascadeAdvance      = 0.3
	cascadeDuration     = 0.8
)

// String returns the mode's name.
func (m Mode) String() string {
	switch m {
	case Simultaneous:
		return "simultaneous"
	case Sequential:
		return "sequential"
	case Cascading:
		return "cascading"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= Simultaneous && m <= Cascading
}

// ParseMode accepts a mode number ("1".."3") or name.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range []Mode{Simultaneous, Sequential, Cascading} {
		if s == m.String() || s == strconv.Itoa(int(m)) {
			return m, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown choreography mode %q (want 1, 2 or 3)", s)
}

// Instruction animates one stroke.
type Instruction struct {
	Group    int // index into the planned groups
	Stroke   int // index within the group
	Position time.Duration
	Delay    time.Duration
	Duration time.Duration

	FromDashOffset float64
	ToDashOffset   float64
	FromOpacity    float64
	ToOpacity      float64
}

// Start is when the stroke begins to move.
func (in Instruction) Start() time.Duration { return in.Position + in.Delay }

// End is when the stroke reaches its final style.
func (in Instruction) End() time.Duration { return in.Start() + in.Duration }

// Progress returns the eased progress in [0, 1] at time t.
func (in Instruction) Progress(t time.Duration) float64 {
	switch {
	case t >= in.End():
		return 1
	case t <= in.Start():
		return 0
	}
	return EaseInOutQuad(float64(t-in.Start()) / float64(in.Duration))
}

// At returns the dash offset and opacity at time t.
func (in Instruction) At(t time.Duration) (dashOffset, opacity float64) {
	p := in.Progress(t)
	return lerp(in.FromDashOffset, in.ToDashOffset, p), lerp(in.FromOpacity, in.ToOpacity, p)
}

func lerp(a, b, t float64) float64 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

// EaseInOutQuad accelerates until t=0.5 and decelerates after.
func EaseInOutQuad(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// Plan computes instructions for groups in order. dur is the total duration
// budget. An empty group list yields no instructions.
func Plan(groups []stroke.Group, dur time.Duration, mode Mode) ([]Instruction, error) {
	if !mode.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown choreography mode %d", int(mode))
	}
	if dur < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "duration must be >= 0, got %s", dur)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	n := time.Duration(len(groups))
	slice := dur / n
	out := make([]Instruction, 0, stroke.Count(groups))

	var cursor time.Duration
	for gi, g := range groups {
		var position, duration, stagger time.Duration
		switch mode {
		case Simultaneous:
			position, duration, stagger = 0, dur, simultaneousStagger
		case Sequential:
			position, duration, stagger = cursor, slice, sequentialStagger
			cursor += scale(slice, sequentialAdvance)
		case Cascading:
			position = scale(time.Duration(gi)*slice, cascadeAdvance)
			duration, stagger = scale(dur, cascadeDuration), simultaneousStagger
		}
		for si, s := range g.Strokes {
			out = append(out, Instruction{
				Group:          gi,
				Stroke:         si,
				Position:       position,
				Delay:          time.Duration(si) * stagger,
				Duration:       duration,
				FromDashOffset: s.Length,
				ToDashOffset:   0,
				FromOpacity:    0,
				ToOpacity:      1,
			})
		}
	}
	return out, nil
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}

// Span is the wall time until the last instruction ends.
func Span(instrs []Instruction) time.Duration {
	var end time.Duration
	for _, in := range instrs {
		end = max(end, in.End())
	}
	return end
}

// GroupSpan returns the earliest start and latest end of group gi.
func GroupSpan(instrs []Instruction, gi int) (start, end time.Duration, ok bool) {
	for _, in := range instrs {
		if in.Group != gi {
			continue
		}
		if !ok || in.Start() < start {
			start = in.Start()
		}
		end = max(end, in.End())
		ok = true
	}
	return start, end, ok
}

// Describe is a short human-readable summary of a plan.
func Describe(instrs []Instruction, mode Mode) string {
	groups := map[int]struct{}{}
	for _, in := range instrs {
		groups[in.Group] = struct{}{}
	}
	return fmt.Sprintf("%s: %d strokes in %d groups over %s", mode, len(instrs), len(groups), Span(instrs))
}
