package direction

import (
	"errors"
	"slices"
	"testing"

	"github.com/ivlev/shapeanim/internal/animerr"
	"github.com/ivlev/shapeanim/internal/shape"
)

func createdShape(t *testing.T, kind shape.Kind) *shape.Shape {
	t.Helper()
	s, err := shape.New("A", kind)
	if err != nil {
		t.Fatalf("shape.New failed: %v", err)
	}
	if err := s.Create(10, 10, 50, 50, shape.AnchorCorner, 255, 128, 64); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return s
}

func run(t *testing.T, d *Direction, s *shape.Shape, from, to int) {
	t.Helper()
	for f := from; f <= to; f++ {
		if err := d.ProcessTick(s, f); err != nil {
			t.Fatalf("ProcessTick(%d) failed: %v", f, err)
		}
	}
}

func TestConstructorsValidate(t *testing.T) {
	tests := []struct {
		name string
		make func() (*Direction, error)
	}{
		{"empty shape name", func() (*Direction, error) { return NewMove("", 1, 1, 0, 5) }},
		{"negative start", func() (*Direction, error) { return NewStall("A", -1, 5) }},
		{"end before start", func() (*Direction, error) { return NewMove("A", 1, 1, 5, 4) }},
		{"resize to zero", func() (*Direction, error) { return NewResize("A", 0, 5, 1, 5) }},
		{"color above range", func() (*Direction, error) { return NewColor("A", 0, 256, 0, 1, 5) }},
		{"create with bad size", func() (*Direction, error) {
			return NewCreate("A", 1, 0, 0, 10, 0, shape.AnchorCorner, 0, 0, 0)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.make(); !errors.Is(err, animerr.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestMoveReachesTarget(t *testing.T) {
	s := createdShape(t, shape.Rectangle)
	d, err := NewMove("A", 70, 70, 2, 55)
	if err != nil {
		t.Fatalf("NewMove failed: %v", err)
	}

	checkpoints := map[int][2]int{2: {10, 10}, 28: {40, 40}, 55: {70, 70}}
	prev := s.X()
	for f := 2; f <= 55; f++ {
		if err := d.ProcessTick(s, f); err != nil {
			t.Fatalf("ProcessTick(%d) failed: %v", f, err)
		}
		if s.X() < prev {
			t.Fatalf("frame %d: x went backwards from %d to %d", f, prev, s.X())
		}
		prev = s.X()
		if want, ok := checkpoints[f]; ok && (s.X() != want[0] || s.Y() != want[1]) {
			t.Errorf("frame %d: expected (%d,%d), got (%d,%d)", f, want[0], want[1], s.X(), s.Y())
		}
	}
}

func TestResizeAndColorAreSymmetric(t *testing.T) {
	s := createdShape(t, shape.Rectangle)
	resize, _ := NewResize("A", 100, 92, 75, 80)
	color, _ := NewColor("A", 0, 0, 255, 75, 80)

	for f := 75; f <= 80; f++ {
		if err := resize.ProcessTick(s, f); err != nil {
			t.Fatalf("resize tick %d: %v", f, err)
		}
		if err := color.ProcessTick(s, f); err != nil {
			t.Fatalf("color tick %d: %v", f, err)
		}
	}
	if s.Width() != 100 || s.Height() != 92 {
		t.Errorf("expected 100x92, got %dx%d", s.Width(), s.Height())
	}
	if got := s.Color(); got != (shape.Color{R: 0, G: 0, B: 255}) {
		t.Errorf("expected {0 0 255}, got %v", got)
	}
}

func TestProcessTickIsIdempotent(t *testing.T) {
	s := createdShape(t, shape.Rectangle)
	d, _ := NewMove("A", 20, 10, 0, 11)

	run(t, d, s, 0, 5)
	x := s.X()
	run(t, d, s, 3, 5)
	if s.X() != x {
		t.Errorf("replaying frames 3..5 moved the shape from %d to %d", x, s.X())
	}
	run(t, d, s, 6, 11)
	if s.X() != 20 {
		t.Errorf("expected x=20, got %d", s.X())
	}
}

func TestProcessTickOutsideIntervalIsNoop(t *testing.T) {
	s := createdShape(t, shape.Rectangle)
	d, _ := NewMove("A", 100, 100, 10, 20)

	run(t, d, s, 0, 9)
	if s.X() != 10 {
		t.Errorf("expected no movement before start, got x=%d", s.X())
	}
	if err := d.ProcessTick(s, 50); err != nil || s.X() != 10 {
		t.Errorf("expected no movement after end, got x=%d err=%v", s.X(), err)
	}
}

func TestProcessTickRejectsOtherShape(t *testing.T) {
	other, _ := shape.New("B", shape.Rectangle)
	d, _ := NewStall("A", 0, 5)
	if err := d.ProcessTick(other, 1); !errors.Is(err, animerr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestStallHasNoSchedule(t *testing.T) {
	s := createdShape(t, shape.Rectangle)
	before := *s
	d, _ := NewStall("A", 0, 30)
	run(t, d, s, 0, 30)
	if d.sched != nil {
		t.Error("a stall should never build a delta table")
	}
	if *s != before {
		t.Errorf("stall changed the shape: %s", s)
	}
}

func TestCreateAppliesOnlyAtStart(t *testing.T) {
	s, _ := shape.New("A", shape.Oval)
	d, err := NewCreate("A", 3, 5, 6, 7, 8, shape.AnchorCenter, 1, 2, 3)
	if err != nil {
		t.Fatalf("NewCreate failed: %v", err)
	}
	run(t, d, s, 0, 2)
	if s.Visible() {
		t.Fatal("shape visible before its create frame")
	}
	run(t, d, s, 3, 3)
	if !s.Visible() || s.X() != 5 || s.Width() != 7 {
		t.Errorf("unexpected state after create: %s", s)
	}
}

func TestCopySharesScheduleButNotProgress(t *testing.T) {
	s := createdShape(t, shape.Rectangle)
	d, _ := NewMove("A", 40, 10, 0, 10)
	run(t, d, s, 0, 4)

	c := d.Copy()
	if c.sched != d.sched {
		t.Error("copy should reuse the already generated schedule")
	}

	clone := s.Copy()
	run(t, c, clone, 5, 10)
	if clone.X() != 40 {
		t.Errorf("copy should finish the move on the clone, got x=%d", clone.X())
	}
	if s.X() == 40 {
		t.Error("running the copy moved the original shape")
	}
	run(t, d, s, 5, 10)
	if s.X() != 40 {
		t.Errorf("original should still finish its move, got x=%d", s.X())
	}
}

func TestCompareOrdersByStartThenEnd(t *testing.T) {
	a, _ := NewStall("A", 5, 9)
	b, _ := NewStall("A", 2, 20)
	c, _ := NewStall("A", 5, 6)
	dirs := []*Direction{a, b, c}
	slices.SortStableFunc(dirs, Compare)
	if dirs[0] != b || dirs[1] != c || dirs[2] != a {
		t.Errorf("unexpected order: %v", dirs)
	}
}

func TestDescribe(t *testing.T) {
	s := createdShape(t, shape.Rectangle)

	create, _ := NewCreate("A", 1, 10, 10, 50, 50, shape.AnchorCenter, 255, 128, 64)
	move, _ := NewMove("A", 70, 70, 2, 55)
	recolor, _ := NewColor("A", 0, 0, 0, 60, 65)

	tests := []struct {
		d    *Direction
		want string
	}{
		{create, "create  A 0.02 010 010 050 050 255 128 064"},
		{move, "move    A 0.03 010 010 050 050 255 128 064 0.92 070 070 050 050 255 128 064"},
		{recolor, "recolor A 1.00 010 010 050 050 255 128 064 1.08 010 010 050 050 000 000 000"},
	}
	for _, tt := range tests {
		if got := tt.d.Describe(*s, 60); got != tt.want {
			t.Errorf("Describe() =\n%q\nwant\n%q", got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("recolor")
	if err == nil {
		t.Errorf("recolor is a log verb, not a kind; got %s", k)
	}
	if k, err := ParseKind("color"); err != nil || k != Color {
		t.Errorf("ParseKind(color) = %v, %v", k, err)
	}
}
