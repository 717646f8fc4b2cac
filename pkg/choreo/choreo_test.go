package choreo

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/stroke"
)

const ms = time.Millisecond

// groups builds len(sizes) groups with sizes[i] strokes each; stroke j of
// every group has length 10*(j+1).
func groups(sizes ...int) []stroke.Group {
	out := make([]stroke.Group, len(sizes))
	for i, n := range sizes {
		out[i] = stroke.Group{Index: i}
		for j := range n {
			out[i].Strokes = append(out[i].Strokes, stroke.Stroke{Layer: j, Length: float64(10 * (j + 1))})
		}
	}
	return out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"1", Simultaneous, false},
		{"2", Sequential, false},
		{" 3 ", Cascading, false},
		{"sequential", Sequential, false},
		{"Cascading", Cascading, false},
		{"0", 0, true},
		{"4", 0, true},
		{"fast", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseMode(%q) code = %s", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlanRejectsUnknownMode(t *testing.T) {
	for _, m := range []Mode{0, 4, -1} {
		if _, err := Plan(groups(1), time.Second, m); err == nil {
			t.Errorf("Plan(mode %d) should fail", m)
		}
	}
	if _, err := Plan(groups(1), -time.Second, Simultaneous); err == nil {
		t.Error("Plan with negative duration should fail")
	}
}

func TestPlanEmpty(t *testing.T) {
	instrs, err := Plan(nil, time.Second, Sequential)
	if err != nil || len(instrs) != 0 {
		t.Errorf("Plan(nil) = %v, %v", instrs, err)
	}
	if Span(instrs) != 0 {
		t.Errorf("Span(nil) = %v", Span(instrs))
	}
}

func TestPlanSimultaneous(t *testing.T) {
	dur := 3000 * ms
	instrs, err := Plan(groups(3, 1, 2), dur, Simultaneous)
	if err != nil {
		t.Fatal(err)
	}
	if len(instrs) != 6 {
		t.Fatalf("len = %d, want 6", len(instrs))
	}
	for _, in := range instrs {
		if in.Position != 0 {
			t.Errorf("group %d position = %v, want 0", in.Group, in.Position)
		}
		if want := time.Duration(in.Stroke) * 100 * ms; in.Delay != want {
			t.Errorf("group %d stroke %d delay = %v, want %v", in.Group, in.Stroke, in.Delay, want)
		}
		if in.Duration != dur {
			t.Errorf("duration = %v, want %v", in.Duration, dur)
		}
	}
	if got, want := Span(instrs), dur+200*ms; got != want {
		t.Errorf("Span = %v, want %v", got, want)
	}
}

func TestPlanSequential(t *testing.T) {
	dur := 3000 * ms
	instrs, err := Plan(groups(2, 2, 2), dur, Sequential)
	if err != nil {
		t.Fatal(err)
	}
	slice := 1000 * ms
	var total time.Duration
	for _, in := range instrs {
		if want := time.Duration(in.Group) * 800 * ms; in.Position != want {
			t.Errorf("group %d position = %v, want %v", in.Group, in.Position, want)
		}
		if want := time.Duration(in.Stroke) * 50 * ms; in.Delay != want {
			t.Errorf("stroke %d delay = %v, want %v", in.Stroke, in.Delay, want)
		}
		if in.Duration != slice {
			t.Errorf("duration = %v, want %v", in.Duration, slice)
		}
		if in.Stroke == 0 {
			total += in.Duration
		}
	}
	if total != dur {
		t.Errorf("sum of slices = %v, want %v", total, dur)
	}
}

func TestPlanSequentialSpanShorterThanBudget(t *testing.T) {
	for _, n := range []int{2, 3, 5, 12} {
		sizes := make([]int, n)
		for i := range sizes {
			sizes[i] = 1
		}
		dur := 3000 * ms
		instrs, err := Plan(groups(sizes...), dur, Sequential)
		if err != nil {
			t.Fatal(err)
		}
		if span := Span(instrs); span >= dur {
			t.Errorf("n=%d: span %v should be < %v", n, span, dur)
		}
	}
}

func TestPlanCascading(t *testing.T) {
	dur := 2000 * ms
	instrs, err := Plan(groups(1, 3, 2, 1), dur, Cascading)
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range instrs {
		want := time.Duration(float64(in.Group) * float64(dur/4) * 0.3)
		if in.Position != want {
			t.Errorf("group %d position = %v, want %v", in.Group, in.Position, want)
		}
		if in.Duration != 1600*ms {
			t.Errorf("duration = %v, want 1.6s", in.Duration)
		}
		if want := time.Duration(in.Stroke) * 100 * ms; in.Delay != want {
			t.Errorf("delay = %v, want %v", in.Delay, want)
		}
	}
}

func TestPlanEndsDrawn(t *testing.T) {
	for _, mode := range []Mode{Simultaneous, Sequential, Cascading} {
		gs := groups(3, 2, 1)
		instrs, err := Plan(gs, 1500*ms, mode)
		if err != nil {
			t.Fatal(err)
		}
		end := Span(instrs)
		for _, in := range instrs {
			wantLen := gs[in.Group].Strokes[in.Stroke].Length
			if d, o := in.At(0); d != wantLen || o != 0 {
				t.Errorf("%s: at 0 got (%v,%v), want (%v,0)", mode, d, o, wantLen)
			}
			if d, o := in.At(end); d != 0 || o != 1 {
				t.Errorf("%s: at end got (%v,%v), want (0,1)", mode, d, o)
			}
		}
	}
}

func TestInstructionAtMidpoint(t *testing.T) {
	in := Instruction{Position: 100 * ms, Delay: 100 * ms, Duration: 1000 * ms, FromDashOffset: 40, FromOpacity: 0, ToOpacity: 1}
	d, o := in.At(700 * ms)
	if math.Abs(d-20) > 1e-9 || math.Abs(o-0.5) > 1e-9 {
		t.Errorf("At(mid) = (%v,%v), want (20,0.5)", d, o)
	}
	if p := in.Progress(150 * ms); p != 0 {
		t.Errorf("Progress before start = %v", p)
	}
}

func TestInstructionZeroDuration(t *testing.T) {
	in := Instruction{Delay: 100 * ms, FromDashOffset: 5, ToOpacity: 1}
	if p := in.Progress(99 * ms); p != 0 {
		t.Errorf("Progress before start = %v", p)
	}
	if p := in.Progress(100 * ms); p != 1 {
		t.Errorf("Progress at start = %v, want 1", p)
	}
}

func TestEaseInOutQuad(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.25, 0.125}, {0.5, 0.5}, {0.75, 0.875}, {1, 1}, {2, 1},
	}
	for _, tt := range tests {
		if got := EaseInOutQuad(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EaseInOutQuad(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOutQuad(float64(i) / 100)
		if v < prev {
			t.Fatalf("not monotonic at %d", i)
		}
		prev = v
	}
}

func TestGroupSpan(t *testing.T) {
	instrs, _ := Plan(groups(2, 1), 1000*ms, Sequential)
	start, end, ok := GroupSpan(instrs, 1)
	if !ok || start != 400*ms || end != 900*ms {
		t.Errorf("GroupSpan(1) = %v,%v,%v", start, end, ok)
	}
	if _, _, ok := GroupSpan(instrs, 7); ok {
		t.Error("GroupSpan of missing group should not be ok")
	}
}
