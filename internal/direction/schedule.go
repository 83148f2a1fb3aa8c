package direction

import "math"

// schedule is a per-frame delta table indexed by frame - first.
type schedule struct {
	first  int
	deltas [][3]int
}

// newSchedule spreads total across the frames of [start, end].
//
// The start frame shows the state the direction begins from, so it carries no
// delta; with no frame strictly between start and end the whole delta lands on
// start instead. Otherwise every frame strictly between the two receives a
// share, and end is reached with the exact total already applied.
func newSchedule(start, end int, total [3]int) *schedule {
	ticks := end - start - 1
	if ticks <= 0 {
		return &schedule{first: start, deltas: [][3]int{total}}
	}

	s := &schedule{first: start + 1, deltas: make([][3]int, ticks)}
	for axis, delta := range total {
		for i, v := range distribute(delta, ticks) {
			s.deltas[i][axis] = v
		}
	}
	return s
}

func (s *schedule) at(frame int) ([3]int, bool) {
	i := frame - s.first
	if i < 0 || i >= len(s.deltas) {
		return [3]int{}, false
	}
	return s.deltas[i], true
}

// distribute splits delta into ticks integer steps using remainder
// distribution: a float accumulator advances by delta/ticks per step, is capped
// so it never passes delta, and each step is the rounded accumulator minus what
// was already handed out. Rounding error carries forward instead of drifting,
// the steps sum to delta exactly and never change sign.
func distribute(delta, ticks int) []int {
	if ticks <= 0 {
		return []int{delta}
	}

	steps := make([]int, ticks)
	share := float64(delta) / float64(ticks)
	limit := float64(delta)
	total := 0.0
	applied := 0
	for i := range steps {
		total += share
		capped := math.Max(limit, total)
		if delta > 0 {
			capped = math.Min(limit, total)
		}
		step := int(math.Round(capped)) - applied
		steps[i] = step
		applied += step
	}
	return steps
}
