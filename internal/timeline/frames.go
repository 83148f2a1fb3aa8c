package timeline

import (
	"fmt"
	"slices"

	"github.com/ivlev/shapeanim/internal/animerr"
	"github.com/ivlev/shapeanim/internal/shape"
)

// Frames holds a snapshot of every visible shape for each frame in
// [0, MaxFrame]. It is immutable and safe for concurrent readers.
type Frames struct {
	order     []string
	snapshots map[string]map[int]shape.Shape
	maxFrame  int
}

// Frames returns the frame cache, building it on the first call. Later calls
// return the same cache (or the same error).
//
// The cache replays a pristine copy of the model, so it is unaffected by
// AdvanceShapes calls on the model itself. An unbuilt model is copied and the
// copy initialized; the model then refuses further edits.
func (m *Model) Frames() (*Frames, error) {
	return m.frames()
}

func (m *Model) buildFrames() (*Frames, error) {
	src := m.seed
	if src == nil {
		m.rendered.Store(true)
		src = m
	}

	replay := src.Copy()
	if !replay.initialized {
		if err := replay.InitializeAnimation(); err != nil {
			return nil, fmt.Errorf("prepare frames: %w", err)
		}
	}

	f := &Frames{
		order:     slices.Clone(replay.order),
		snapshots: make(map[string]map[int]shape.Shape, len(replay.order)),
		maxFrame:  replay.maxFrame,
	}
	for _, name := range f.order {
		f.snapshots[name] = make(map[int]shape.Shape)
	}

	for frame := 0; frame <= f.maxFrame; frame++ {
		if err := replay.AdvanceShapes(); err != nil {
			return nil, fmt.Errorf("render frame %d: %w", frame, err)
		}
		for _, name := range replay.order {
			s := replay.shapes[name]
			if s.Visible() {
				f.snapshots[name][frame] = *s
			}
		}
	}

	Logger().Debug("frames rendered", "frames", f.maxFrame+1, "shapes", len(f.order))
	return f, nil
}

// MaxFrame returns the last cached frame.
func (f *Frames) MaxFrame() int {
	return f.maxFrame
}

// Len returns the number of cached frames.
func (f *Frames) Len() int {
	return f.maxFrame + 1
}

// Names returns every shape the cache knows about in declaration order.
func (f *Frames) Names() []string {
	return slices.Clone(f.order)
}

// ShapeAt returns the named shape as it was at frame. It reports false when the
// shape is unknown, not yet created or already removed at that frame.
func (f *Frames) ShapeAt(name string, frame int) (shape.Shape, bool) {
	s, ok := f.snapshots[name][frame]
	return s, ok
}

// ShapesAt returns every shape visible at frame in declaration order. Frames
// outside the cached range yield an empty slice.
func (f *Frames) ShapesAt(frame int) []shape.Shape {
	out := make([]shape.Shape, 0, len(f.order))
	for _, name := range f.order {
		if s, ok := f.snapshots[name][frame]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ShapeAtFrame returns the named shape at frame from the frame cache.
func (m *Model) ShapeAtFrame(name string, frame int) (shape.Shape, bool, error) {
	if err := checkFrame(frame); err != nil {
		return shape.Shape{}, false, err
	}
	f, err := m.Frames()
	if err != nil {
		return shape.Shape{}, false, err
	}
	s, ok := f.ShapeAt(name, frame)
	return s, ok, nil
}

// ShapesAtFrame returns every shape visible at frame from the frame cache.
func (m *Model) ShapesAtFrame(frame int) ([]shape.Shape, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	f, err := m.Frames()
	if err != nil {
		return nil, err
	}
	return f.ShapesAt(frame), nil
}

// ShapesAtCurrentFrame returns the shapes visible at the display frame counter.
func (m *Model) ShapesAtCurrentFrame() ([]shape.Shape, error) {
	return m.ShapesAtFrame(m.display)
}

func checkFrame(frame int) error {
	if frame < 0 {
		return &animerr.RangeError{Field: "frame", Value: frame, Min: 0}
	}
	return nil
}
