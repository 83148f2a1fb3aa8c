// Package direction implements interval-bound transformations of a single shape.
//
// A Direction is a tagged variant over Create, Move, Resize, Color and Stall.
// Directions name the shape they target instead of holding it: the caller passes
// the shape to ProcessTick, so a direction never aliases state it does not own.
package direction

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/ivlev/shapeanim/internal/animerr"
	"github.com/ivlev/shapeanim/internal/shape"
)

// Kind tags the direction variant.
type Kind int

const (
	Create Kind = iota
	Move
	Resize
	Color
	Stall
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "CREATE"
	case Move:
		return "MOVE"
	case Resize:
		return "RESIZE"
	case Color:
		return "COLOR"
	case Stall:
		return "STALL"
	default:
		return "UNKNOWN"
	}
}

// ParseKind resolves a kind name such as "move" or "COLOR".
func ParseKind(s string) (Kind, error) {
	for k := Create; k <= Stall; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, animerr.Invalidf("unknown direction kind %q", s)
}

// createState is the full shape state a Create direction installs.
type createState struct {
	x, y, width, height int
	anchor              shape.Anchor
	color               shape.Color
}

// Direction transforms one shape over the closed frame interval [Start, End].
type Direction struct {
	kind   Kind
	shape  string
	start  int
	end    int
	target [3]int // Move: x,y. Resize: w,h. Color: r,g,b.
	create createState

	sched   *schedule
	applied int // last frame whose delta reached the shape
}

func newDirection(kind Kind, name string, start, end int) (*Direction, error) {
	if name == "" {
		return nil, animerr.Invalidf("%s direction needs a shape", kind)
	}
	if start < 0 {
		return nil, &animerr.RangeError{Field: "start frame", Value: start, Min: 0}
	}
	if end < start {
		return nil, animerr.Invalidf("end frame %d cannot be less than start frame %d", end, start)
	}
	return &Direction{kind: kind, shape: name, start: start, end: end, applied: -1}, nil
}

// NewCreate returns a direction that fully initializes the shape at frame.
func NewCreate(name string, frame, x, y, width, height int, anchor shape.Anchor, r, g, b int) (*Direction, error) {
	d, err := newDirection(Create, name, frame, frame)
	if err != nil {
		return nil, err
	}
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if err := checkColor(r, g, b); err != nil {
		return nil, err
	}
	d.create = createState{
		x: x, y: y, width: width, height: height,
		anchor: anchor,
		color:  shape.Color{R: r, G: g, B: b},
	}
	return d, nil
}

// NewMove returns a direction that moves the shape to (x, y) by frame end.
func NewMove(name string, x, y, start, end int) (*Direction, error) {
	d, err := newDirection(Move, name, start, end)
	if err != nil {
		return nil, err
	}
	d.target = [3]int{x, y, 0}
	return d, nil
}

// NewResize returns a direction that resizes the shape to width x height by frame end.
func NewResize(name string, width, height, start, end int) (*Direction, error) {
	d, err := newDirection(Resize, name, start, end)
	if err != nil {
		return nil, err
	}
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	d.target = [3]int{width, height, 0}
	return d, nil
}

// NewColor returns a direction that recolors the shape to (r, g, b) by frame end.
func NewColor(name string, r, g, b, start, end int) (*Direction, error) {
	d, err := newDirection(Color, name, start, end)
	if err != nil {
		return nil, err
	}
	if err := checkColor(r, g, b); err != nil {
		return nil, err
	}
	d.target = [3]int{r, g, b}
	return d, nil
}

// NewStall returns a direction that holds the shape unchanged over [start, end].
func NewStall(name string, start, end int) (*Direction, error) {
	return newDirection(Stall, name, start, end)
}

func checkSize(width, height int) error {
	if width < 1 {
		return &animerr.RangeError{Field: "width", Value: width, Min: 1}
	}
	if height < 1 {
		return &animerr.RangeError{Field: "height", Value: height, Min: 1}
	}
	return nil
}

func checkColor(r, g, b int) error {
	for i, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return &animerr.RangeError{Field: [3]string{"red", "green", "blue"}[i], Value: v, Min: 0, Max: 255}
		}
	}
	return nil
}

func (d *Direction) Kind() Kind        { return d.kind }
func (d *Direction) ShapeName() string { return d.shape }
func (d *Direction) Start() int        { return d.start }
func (d *Direction) End() int          { return d.end }

// Target returns the kind-specific final values: x,y for Move, width,height for
// Resize, r,g,b for Color. Create and Stall report zeros.
func (d *Direction) Target() [3]int { return d.target }

// Contains reports whether frame lies inside [Start, End].
func (d *Direction) Contains(frame int) bool {
	return frame >= d.start && frame <= d.end
}

// ProcessTick applies the delta scheduled for frame to s.
//
// The schedule is derived on the first call from the state of s at that moment.
// Frames outside [Start, End], frames without a scheduled delta and frames that
// were already applied are no-ops.
func (d *Direction) ProcessTick(s *shape.Shape, frame int) error {
	if s == nil || s.Name() != d.shape {
		return animerr.Invalidf("%s direction for %q applied to the wrong shape", d.kind, d.shape)
	}
	if !d.Contains(frame) || frame <= d.applied {
		return nil
	}

	switch d.kind {
	case Create:
		c := d.create
		if err := s.Create(c.x, c.y, c.width, c.height, c.anchor, c.color.R, c.color.G, c.color.B); err != nil {
			return fmt.Errorf("create %q at frame %d: %w", d.shape, frame, err)
		}
	case Stall:
		// a stall holds the shape, there is nothing to schedule
	default:
		if d.sched == nil {
			d.sched = d.plan(s)
		}
		if delta, ok := d.sched.at(frame); ok {
			if err := d.apply(s, delta); err != nil {
				return fmt.Errorf("%s %q at frame %d: %w", strings.ToLower(d.kind.String()), d.shape, frame, err)
			}
		}
	}
	d.applied = frame
	return nil
}

func (d *Direction) plan(s *shape.Shape) *schedule {
	var current [3]int
	switch d.kind {
	case Move:
		current = [3]int{s.X(), s.Y(), 0}
	case Resize:
		current = [3]int{s.Width(), s.Height(), 0}
	case Color:
		c := s.Color()
		current = [3]int{c.R, c.G, c.B}
	}
	var total [3]int
	for i := range total {
		total[i] = d.target[i] - current[i]
	}
	return newSchedule(d.start, d.end, total)
}

func (d *Direction) apply(s *shape.Shape, delta [3]int) error {
	switch d.kind {
	case Move:
		return s.Shift(delta[0], delta[1])
	case Resize:
		return s.ShiftSize(delta[0], delta[1])
	case Color:
		return s.ShiftColor(delta[0], delta[1], delta[2])
	}
	return nil
}

// Copy returns a structurally identical direction. A schedule that was already
// generated is shared, since schedules are never modified once built.
func (d *Direction) Copy() *Direction {
	c := *d
	return &c
}

// Compare orders directions by (Start, End).
func Compare(a, b *Direction) int {
	if c := cmp.Compare(a.start, b.start); c != 0 {
		return c
	}
	return cmp.Compare(a.end, b.end)
}

// Describe renders the log line of d given the shape as it was just before
// Start: the verb, the shape name, then start time and state followed by end
// time and state. Times are in seconds at fps.
func (d *Direction) Describe(before shape.Shape, fps int) string {
	if fps < 1 {
		fps = 1
	}
	after := before
	var err error
	switch d.kind {
	case Create:
		c := d.create
		err = after.Create(c.x, c.y, c.width, c.height, c.anchor, c.color.R, c.color.G, c.color.B)
		if err == nil {
			return fmt.Sprintf("%-8s%s %.2f %s", verbs[Create], d.shape, seconds(d.start, fps), after.String())
		}
	case Move:
		err = after.Move(d.target[0], d.target[1])
	case Resize:
		err = after.SetSize(d.target[0], d.target[1])
	case Color:
		err = after.SetColor(d.target[0], d.target[1], d.target[2])
	}
	if err != nil {
		return d.String()
	}
	return fmt.Sprintf("%-8s%s %.2f %s %.2f %s", verbs[d.kind], d.shape,
		seconds(d.start, fps), before.String(), seconds(d.end, fps), after.String())
}

var verbs = map[Kind]string{
	Create: "create",
	Move:   "move",
	Resize: "resize",
	Color:  "recolor",
	Stall:  "stall",
}

func seconds(frame, fps int) float64 {
	return float64(frame) / float64(fps)
}

func (d *Direction) String() string {
	switch d.kind {
	case Create:
		c := d.create
		return fmt.Sprintf("CREATE %s @%d (%d,%d) %dx%d rgb(%d,%d,%d) %s",
			d.shape, d.start, c.x, c.y, c.width, c.height, c.color.R, c.color.G, c.color.B, c.anchor)
	case Stall:
		return fmt.Sprintf("STALL %s [%d,%d]", d.shape, d.start, d.end)
	case Color:
		return fmt.Sprintf("COLOR %s [%d,%d] -> rgb(%d,%d,%d)", d.shape, d.start, d.end, d.target[0], d.target[1], d.target[2])
	default:
		return fmt.Sprintf("%s %s [%d,%d] -> (%d,%d)", d.kind, d.shape, d.start, d.end, d.target[0], d.target[1])
	}
}
