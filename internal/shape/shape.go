// Package shape holds the mutable geometric and color state of a named shape.
package shape

import (
	"fmt"
	"image"

	"github.com/ivlev/shapeanim/internal/animerr"
)

// Color is an RGB triple with channels in [0,255].
type Color struct {
	R, G, B int
}

// Shape is a named shape's position, size, color and visibility.
//
// Shape has no reference fields: assigning or copying a Shape value produces a
// fully independent shape. The zero size is only legal before the first Create.
type Shape struct {
	name    string
	kind    Kind
	x, y    int
	width   int
	height  int
	anchor  Anchor
	color   Color
	visible bool
}

// New returns an invisible shape of the given kind.
func New(name string, kind Kind) (*Shape, error) {
	if name == "" {
		return nil, animerr.Invalidf("shape name cannot be empty")
	}
	if kind < Rectangle || kind > Plus {
		return nil, animerr.Invalidf("unknown shape kind %d", int(kind))
	}
	return &Shape{name: name, kind: kind, anchor: DefaultAnchor(kind)}, nil
}

// Create fully re-initializes the shape and makes it visible.
// The shape is left untouched when any field is out of range.
func (s *Shape) Create(x, y, width, height int, anchor Anchor, r, g, b int) error {
	if err := checkMin("width", width, 1); err != nil {
		return err
	}
	if err := checkMin("height", height, 1); err != nil {
		return err
	}
	for _, c := range []struct {
		field string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if c.value < 0 || c.value > 255 {
			return &animerr.RangeError{Field: c.field, Value: c.value, Min: 0, Max: 255}
		}
	}
	if s.kind == Plus && width != height {
		return animerr.Invalidf("width and height must be equal for a plus, got %dx%d", width, height)
	}

	s.x, s.y = x, y
	s.width, s.height = width, height
	s.anchor = anchor
	s.color = Color{R: r, G: g, B: b}
	s.visible = true
	return nil
}

func checkMin(field string, v, lo int) error {
	if v < lo {
		return &animerr.RangeError{Field: field, Value: v, Min: lo}
	}
	return nil
}

// Move places the shape at an absolute position.
func (s *Shape) Move(x, y int) error {
	return s.Create(x, y, s.width, s.height, s.anchor, s.color.R, s.color.G, s.color.B)
}

// Shift moves the shape relative to its current position.
func (s *Shape) Shift(dx, dy int) error {
	return s.Move(s.x+dx, s.y+dy)
}

// SetColor sets all three channels.
func (s *Shape) SetColor(r, g, b int) error {
	return s.Create(s.x, s.y, s.width, s.height, s.anchor, r, g, b)
}

// ShiftColor adds a delta to each channel, clamping the result into [0,255].
func (s *Shape) ShiftColor(dr, dg, db int) error {
	return s.SetColor(clamp(s.color.R+dr), clamp(s.color.G+dg), clamp(s.color.B+db))
}

// SetSize sets width and height.
func (s *Shape) SetSize(width, height int) error {
	return s.Create(s.x, s.y, width, height, s.anchor, s.color.R, s.color.G, s.color.B)
}

// ShiftSize grows or shrinks the shape by the given deltas.
func (s *Shape) ShiftSize(dw, dh int) error {
	return s.SetSize(s.width+dw, s.height+dh)
}

func clamp(v int) int {
	return min(255, max(0, v))
}

// Copy returns an independently owned clone.
func (s *Shape) Copy() *Shape {
	c := *s
	return &c
}

func (s *Shape) Name() string   { return s.name }
func (s *Shape) Kind() Kind     { return s.kind }
func (s *Shape) X() int         { return s.x }
func (s *Shape) Y() int         { return s.y }
func (s *Shape) Width() int     { return s.width }
func (s *Shape) Height() int    { return s.height }
func (s *Shape) Anchor() Anchor { return s.anchor }
func (s *Shape) Color() Color   { return s.color }
func (s *Shape) Visible() bool  { return s.visible }

// Bounds returns the shape's extent as a corner-anchored rectangle.
func (s *Shape) Bounds() image.Rectangle {
	x, y := s.x, s.y
	if s.anchor == AnchorCenter {
		x -= s.width / 2
		y -= s.height / 2
	}
	return image.Rect(x, y, x+s.width, y+s.height)
}

// String renders "x y w h r g b" with each value zero-padded to three digits.
func (s *Shape) String() string {
	return fmt.Sprintf("%03d %03d %03d %03d %03d %03d %03d",
		s.x, s.y, s.width, s.height, s.color.R, s.color.G, s.color.B)
}
