// Package timeline owns shapes and their directions, validates the schedule and
// replays it into frame-indexed snapshots.
//
// A Model is built while unbuilt (InitShape, CreateShape, MoveShape, ...),
// frozen by InitializeAnimation and afterwards only advanced or read.
package timeline

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ivlev/shapeanim/internal/animerr"
	"github.com/ivlev/shapeanim/internal/direction"
	"github.com/ivlev/shapeanim/internal/shape"
)

// Bounds is the canvas origin and size declared by an animation script.
type Bounds struct {
	X, Y          int
	Width, Height int
}

// DefaultBounds is used until SetBounds is called.
var DefaultBounds = Bounds{Width: 500, Height: 500}

// Model is the animation timeline.
type Model struct {
	shapes     map[string]*shape.Shape
	order      []string
	directions map[string][]*direction.Direction
	removals   map[string]int

	initialized bool
	cursor      int
	display     int
	maxFrame    int
	bounds      Bounds

	// seed is an untouched copy taken at initialization; the frame cache
	// replays it so advancing this model never affects rendered frames.
	seed     *Model
	rendered atomic.Bool
	frames   func() (*Frames, error)
}

// New returns an empty, unbuilt model.
func New() *Model {
	m := &Model{
		shapes:     make(map[string]*shape.Shape),
		directions: make(map[string][]*direction.Direction),
		removals:   make(map[string]int),
		bounds:     DefaultBounds,
	}
	m.frames = sync.OnceValues(m.buildFrames)
	return m
}

func (m *Model) checkMutable() error {
	if m.initialized {
		return animerr.Statef("action cannot be done, animation is already initialized")
	}
	if m.rendered.Load() {
		return animerr.Statef("action cannot be done, frames were already rendered")
	}
	return nil
}

func (m *Model) lookup(name string) (*shape.Shape, error) {
	s, ok := m.shapes[name]
	if !ok {
		return nil, animerr.Invalidf("no shape named %q exists", name)
	}
	return s, nil
}

// InitShape registers a new, not yet created shape.
func (m *Model) InitShape(name, kind string) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	if _, exists := m.shapes[name]; exists {
		return animerr.Invalidf("shape %q already exists", name)
	}
	k, err := shape.ParseKind(kind)
	if err != nil {
		return err
	}
	s, err := shape.New(name, k)
	if err != nil {
		return err
	}

	m.shapes[name] = s
	m.directions[name] = nil
	m.order = append(m.order, name)
	return nil
}

// CreateShape schedules the shape's full initial state at frame.
func (m *Model) CreateShape(name string, frame, x, y, width, height int, anchor shape.Anchor, r, g, b int) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	s, err := m.lookup(name)
	if err != nil {
		return err
	}
	if err := m.checkRemoval(name, frame, frame); err != nil {
		return err
	}
	// Kind-specific rules such as plus symmetry live on the shape.
	if err := s.Copy().Create(x, y, width, height, anchor, r, g, b); err != nil {
		return fmt.Errorf("create %q: %w", name, err)
	}
	d, err := direction.NewCreate(name, frame, x, y, width, height, anchor, r, g, b)
	if err != nil {
		return err
	}

	m.directions[name] = append(m.directions[name], d)
	return nil
}

// MoveShape schedules a move to (x, y) over [start, end].
func (m *Model) MoveShape(name string, x, y, start, end int) error {
	if err := m.checkDirection(name, start, end); err != nil {
		return err
	}
	d, err := direction.NewMove(name, x, y, start, end)
	if err != nil {
		return err
	}
	return m.addDirection(d)
}

// ResizeShape schedules a resize to width x height over [start, end].
func (m *Model) ResizeShape(name string, width, height, start, end int) error {
	if err := m.checkDirection(name, start, end); err != nil {
		return err
	}
	if m.shapes[name].Kind() == shape.Plus && width != height {
		return animerr.Invalidf("width and height must be equal for a plus, got %dx%d", width, height)
	}
	d, err := direction.NewResize(name, width, height, start, end)
	if err != nil {
		return err
	}
	return m.addDirection(d)
}

// RecolorShape schedules a color change to (r, g, b) over [start, end].
func (m *Model) RecolorShape(name string, r, g, b, start, end int) error {
	if err := m.checkDirection(name, start, end); err != nil {
		return err
	}
	d, err := direction.NewColor(name, r, g, b, start, end)
	if err != nil {
		return err
	}
	return m.addDirection(d)
}

// StallShape holds the shape unchanged over [start, end].
func (m *Model) StallShape(name string, start, end int) error {
	if err := m.checkDirection(name, start, end); err != nil {
		return err
	}
	d, err := direction.NewStall(name, start, end)
	if err != nil {
		return err
	}
	return m.addDirection(d)
}

func (m *Model) addDirection(d *direction.Direction) error {
	m.directions[d.ShapeName()] = append(m.directions[d.ShapeName()], d)
	return nil
}

// checkDirection validates, in order, that the model is mutable, the shape
// exists, the interval stays clear of a scheduled removal and the shape already
// has a direction starting no later than start.
func (m *Model) checkDirection(name string, start, end int) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	if _, err := m.lookup(name); err != nil {
		return err
	}
	if err := m.checkRemoval(name, start, end); err != nil {
		return err
	}
	return m.checkAfterCreate(name, start)
}

func (m *Model) checkRemoval(name string, start, end int) error {
	removal, ok := m.removals[name]
	if !ok {
		return nil
	}
	if start >= removal || end >= removal {
		return animerr.Invalidf("direction [%d,%d] for %q takes place after its removal at frame %d", start, end, name, removal)
	}
	return nil
}

func (m *Model) checkAfterCreate(name string, start int) error {
	first, ok := m.firstDirection(name)
	if !ok {
		return animerr.Invalidf("shape %q has no create direction queued yet", name)
	}
	if start < first.Start() {
		return animerr.Invalidf("direction at frame %d for %q would happen before its first direction at frame %d", start, name, first.Start())
	}
	return nil
}

// firstDirection returns the earliest direction of a shape by sort order.
func (m *Model) firstDirection(name string) (*direction.Direction, bool) {
	dirs := m.directions[name]
	if len(dirs) == 0 {
		return nil, false
	}
	return slices.MinFunc(dirs, direction.Compare), true
}

// RemoveShape schedules the shape's removal at frame. The frame must come
// strictly after every queued direction of the shape.
func (m *Model) RemoveShape(name string, frame int) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	if _, err := m.lookup(name); err != nil {
		return err
	}
	if err := m.checkAfterCreate(name, frame); err != nil {
		return err
	}
	if _, ok := m.removals[name]; ok {
		return animerr.Invalidf("shape %q already has a removal set", name)
	}
	last := 0
	for _, d := range m.directions[name] {
		last = max(last, d.End())
	}
	if frame <= last {
		return animerr.Invalidf("removal of %q at frame %d occurs before its directions complete at frame %d", name, frame, last)
	}

	m.removals[name] = frame
	return nil
}

// RemoveDirection drops the direction matching kind and interval. A create can
// only be removed once it is the shape's last direction.
func (m *Model) RemoveDirection(name string, kind direction.Kind, start, end int) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	if _, err := m.lookup(name); err != nil {
		return err
	}
	dirs := m.directions[name]
	if kind == direction.Create && len(dirs) > 1 {
		return animerr.Invalidf("cannot remove the create of %q while it still has other directions", name)
	}
	i := slices.IndexFunc(dirs, func(d *direction.Direction) bool {
		return d.Kind() == kind && d.Start() == start && d.End() == end
	})
	if i < 0 {
		return animerr.Invalidf("%s direction [%d,%d] not found for %q", kind, start, end, name)
	}

	m.directions[name] = slices.Delete(slices.Clone(dirs), i, i+1)
	return nil
}

// SetBounds records the canvas origin and size.
func (m *Model) SetBounds(x, y, width, height int) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	if width < 1 {
		return &animerr.RangeError{Field: "canvas width", Value: width, Min: 1}
	}
	if height < 1 {
		return &animerr.RangeError{Field: "canvas height", Value: height, Min: 1}
	}
	m.bounds = Bounds{X: x, Y: y, Width: width, Height: height}
	return nil
}

// InitializeAnimation sorts and validates every shape's directions, computes the
// maximum frame and freezes the model.
func (m *Model) InitializeAnimation() error {
	if m.initialized {
		return animerr.Statef("action cannot be done, animation is already initialized")
	}
	if m.rendered.Load() {
		return animerr.Statef("action cannot be done, frames were already rendered")
	}

	sorted := make(map[string][]*direction.Direction, len(m.directions))
	maxFrame := 0
	for _, name := range m.order {
		dirs := slices.Clone(m.directions[name])
		slices.SortStableFunc(dirs, direction.Compare)
		if err := validate(name, dirs); err != nil {
			return err
		}
		for _, d := range dirs {
			maxFrame = max(maxFrame, d.End())
		}
		sorted[name] = dirs
	}
	for _, frame := range m.removals {
		maxFrame = max(maxFrame, frame)
	}

	m.directions = sorted
	m.maxFrame = maxFrame
	m.initialized = true
	m.seed = m.Copy()

	Logger().Debug("animation initialized", "shapes", len(m.order), "maxFrame", maxFrame)
	return nil
}

// validate checks one shape's sorted directions for a leading create, same-kind
// overlaps and uncovered frames.
func validate(name string, dirs []*direction.Direction) error {
	if len(dirs) == 0 {
		return nil
	}
	if dirs[0].Kind() != direction.Create {
		return animerr.Invalidf("shape %q must begin with a CREATE direction, got %s", name, dirs[0].Kind())
	}

	for i, d := range dirs {
		for _, next := range dirs[i+1:] {
			if d.Kind() == direction.Create && next.Start() <= d.End() {
				return animerr.Invalidf("shape %q has a %s change overlap", name, d.Kind())
			}
			if next.Start() >= d.End() {
				break
			}
			if d.Kind() == next.Kind() {
				return animerr.Invalidf("shape %q has a %s change overlap", name, d.Kind())
			}
		}
	}

	// A gap is a frame no direction covers, so each start is compared with the
	// furthest end so far rather than with the previous direction only. A short
	// direction nested inside a longer one does not open a gap.
	reach := dirs[0].End()
	for _, next := range dirs[1:] {
		if next.Start()-1 > reach {
			return animerr.Invalidf("shape %q has a frame gap between frame %d and frame %d", name, reach, next.Start())
		}
		reach = max(reach, next.End())
	}
	return nil
}

// AdvanceShapes applies the current cursor frame to every shape, evicts shapes
// whose removal frame has been reached and moves the cursor forward.
func (m *Model) AdvanceShapes() error {
	if !m.initialized {
		return animerr.Statef("animation has not been initialized yet")
	}

	for _, name := range m.order {
		s := m.shapes[name]
		for _, d := range m.directions[name] {
			if d.Start() > m.cursor {
				break
			}
			if d.End() < m.cursor {
				continue
			}
			if err := d.ProcessTick(s, m.cursor); err != nil {
				return fmt.Errorf("advance frame %d: %w", m.cursor, err)
			}
		}
	}

	m.order = slices.DeleteFunc(m.order, func(name string) bool {
		removal, ok := m.removals[name]
		if !ok || removal > m.cursor {
			return false
		}
		delete(m.shapes, name)
		delete(m.directions, name)
		delete(m.removals, name)
		return true
	})

	m.cursor++
	return nil
}

// Cursor returns the next frame AdvanceShapes will apply.
func (m *Model) Cursor() int {
	return m.cursor
}

// AdvanceFrame moves the display frame counter forward. It does not touch shapes.
func (m *Model) AdvanceFrame() {
	m.display++
}

// ResetFrame rewinds the display frame counter to zero.
func (m *Model) ResetFrame() {
	m.display = 0
}

// CurrentFrame returns the display frame counter.
func (m *Model) CurrentFrame() int {
	return m.display
}

// Copy returns an independent deep clone with its own, empty frame cache.
func (m *Model) Copy() *Model {
	c := New()
	c.order = slices.Clone(m.order)
	for _, name := range m.order {
		c.shapes[name] = m.shapes[name].Copy()
		dirs := make([]*direction.Direction, len(m.directions[name]))
		for i, d := range m.directions[name] {
			dirs[i] = d.Copy()
		}
		c.directions[name] = dirs
	}
	for name, frame := range m.removals {
		c.removals[name] = frame
	}
	c.initialized = m.initialized
	c.cursor = m.cursor
	c.display = m.display
	c.maxFrame = m.maxFrame
	c.bounds = m.bounds
	c.seed = m.seed
	return c
}

// Initialized reports whether InitializeAnimation has run.
func (m *Model) Initialized() bool {
	return m.initialized
}

// MaximumFrame returns the last frame at which a direction ends or a shape is removed.
func (m *Model) MaximumFrame() (int, error) {
	if !m.initialized {
		return 0, animerr.Statef("model must be initialized before reading its maximum frame")
	}
	return m.maxFrame, nil
}

// Bounds returns the canvas declared for the animation.
func (m *Model) Bounds() Bounds {
	return m.bounds
}

// Shapes returns a copy of every shape in declaration order, in its current state.
func (m *Model) Shapes() []shape.Shape {
	out := make([]shape.Shape, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, *m.shapes[name])
	}
	return out
}

// Shape returns a copy of the named shape in its current state.
func (m *Model) Shape(name string) (shape.Shape, bool) {
	s, ok := m.shapes[name]
	if !ok {
		return shape.Shape{}, false
	}
	return *s, true
}

// RemovalFrame returns the frame at which the named shape is removed, if any.
func (m *Model) RemovalFrame(name string) (int, bool) {
	frame, ok := m.removals[name]
	return frame, ok
}

// Directions returns copies of every shape's directions keyed by shape name.
func (m *Model) Directions() map[string][]*direction.Direction {
	out := make(map[string][]*direction.Direction, len(m.directions))
	for _, name := range m.order {
		out[name] = copyDirections(m.directions[name])
	}
	return out
}

// DirectionsForShape returns copies of the named shape's directions.
func (m *Model) DirectionsForShape(name string) ([]*direction.Direction, error) {
	if _, err := m.lookup(name); err != nil {
		return nil, err
	}
	return copyDirections(m.directions[name]), nil
}

func copyDirections(dirs []*direction.Direction) []*direction.Direction {
	out := make([]*direction.Direction, len(dirs))
	for i, d := range dirs {
		out[i] = d.Copy()
	}
	return out
}
