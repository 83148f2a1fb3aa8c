package timeline

import (
	"slices"

	"github.com/ivlev/shapeanim/internal/animerr"
	"github.com/ivlev/shapeanim/internal/shape"
)

// Builder turns two-keyframe motions into primitive directions on an unbuilt
// model. It is the ingestion contract used by scenario readers.
type Builder struct {
	model *Model
}

// NewBuilder returns a builder over an empty model.
func NewBuilder() *Builder {
	return &Builder{model: New()}
}

// Build returns the model built so far. The model is not initialized.
func (b *Builder) Build() *Model {
	return b.model
}

// SetBounds sets the canvas. Keyframe coordinates are relative to its origin.
func (b *Builder) SetBounds(x, y, width, height int) error {
	return b.model.SetBounds(x, y, width, height)
}

// DeclareShape registers a shape by kind name ("rectangle", "oval", "ellipse" or "plus").
func (b *Builder) DeclareShape(name, kind string) error {
	return b.model.InitShape(name, kind)
}

// AddMotion adds the segment between keyframe (t1, ...) and keyframe (t2, ...).
//
// The first motion of a shape creates it at t1. Every motion then emits a move,
// a resize and a recolor for whichever attributes differ between the two
// keyframes, or a stall when none do. A failed call leaves the model unchanged.
func (b *Builder) AddMotion(name string,
	t1, x1, y1, w1, h1, r1, g1, b1,
	t2, x2, y2, w2, h2, r2, g2, b2 int) (err error) {
	m := b.model
	s, err := m.lookup(name)
	if err != nil {
		return err
	}
	if t2 < t1 {
		return animerr.Invalidf("motion of %q ends at frame %d before it starts at frame %d", name, t2, t1)
	}
	origin := m.Bounds()

	saved := slices.Clone(m.directions[name])
	defer func() {
		if err != nil {
			m.directions[name] = saved
		}
	}()

	first, ok := m.firstDirection(name)
	if !ok {
		if err := m.CreateShape(name, t1, x1-origin.X, y1-origin.Y, w1, h1, shape.DefaultAnchor(s.Kind()), r1, g1, b1); err != nil {
			return err
		}
		if t1 == t2 {
			return nil
		}
		t1++
	} else {
		t1 = max(t1, first.End()+1)
	}

	emitted := false
	if x1 != x2 || y1 != y2 {
		if err := m.MoveShape(name, x2-origin.X, y2-origin.Y, t1, t2); err != nil {
			return err
		}
		emitted = true
	}
	if w1 != w2 || h1 != h2 {
		if err := m.ResizeShape(name, w2, h2, t1, t2); err != nil {
			return err
		}
		emitted = true
	}
	if r1 != r2 || g1 != g2 || b1 != b2 {
		if err := m.RecolorShape(name, r2, g2, b2, t1, t2); err != nil {
			return err
		}
		emitted = true
	}
	if !emitted {
		return m.StallShape(name, t1, t2)
	}
	return nil
}

// RemoveShape schedules the removal of a shape at frame.
func (b *Builder) RemoveShape(name string, frame int) error {
	return b.model.RemoveShape(name, frame)
}
