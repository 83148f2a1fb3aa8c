package renderer

import (
	"fmt"
	"html"
	"image"
	"io"
	"slices"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/shapeanim/internal/direction"
	"github.com/ivlev/shapeanim/internal/shape"
	"github.com/ivlev/shapeanim/internal/timeline"
)

type svgAttr struct {
	name  string
	value int
}

// svgPart is one element drawn for a shape. A plus is drawn as two bars.
type svgPart struct {
	tag    string
	suffix string
	attrs  func(b image.Rectangle) []svgAttr
}

func svgParts(k shape.Kind) []svgPart {
	switch k {
	case shape.Oval:
		return []svgPart{{tag: "ellipse", attrs: ellipseAttrs}}
	case shape.Plus:
		return []svgPart{
			{tag: "rect", suffix: "-v", attrs: verticalBarAttrs},
			{tag: "rect", suffix: "-h", attrs: horizontalBarAttrs},
		}
	default:
		return []svgPart{{tag: "rect", attrs: rectAttrs}}
	}
}

func rectAttrs(b image.Rectangle) []svgAttr {
	return []svgAttr{{"x", b.Min.X}, {"y", b.Min.Y}, {"width", b.Dx()}, {"height", b.Dy()}}
}

func ellipseAttrs(b image.Rectangle) []svgAttr {
	return []svgAttr{{"cx", b.Min.X + b.Dx()/2}, {"cy", b.Min.Y + b.Dy()/2}, {"rx", b.Dx() / 2}, {"ry", b.Dy() / 2}}
}

func verticalBarAttrs(b image.Rectangle) []svgAttr {
	w4 := b.Dx() / 4
	return rectAttrs(image.Rect(b.Min.X+w4, b.Min.Y, b.Max.X-w4, b.Max.Y))
}

func horizontalBarAttrs(b image.Rectangle) []svgAttr {
	h4 := b.Dy() / 4
	return rectAttrs(image.Rect(b.Min.X, b.Min.Y+h4, b.Max.X, b.Max.Y-h4))
}

// SVG renders the animation as SVG markup: one element per shape in its
// created state, animated by an <animate> per changed attribute of every
// direction and shown or hidden with <set> at its create and removal frames.
func SVG(m *timeline.Model, fps int) (string, error) {
	frames, err := m.Frames()
	if err != nil {
		return "", err
	}
	fps = max(fps, 1)
	bounds := m.Bounds()
	directions := m.Directions()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%d" height="%d" viewBox="0 0 %d %d" version="1.1" xmlns="http://www.w3.org/2000/svg">`+"\n",
		bounds.Width, bounds.Height, bounds.Width, bounds.Height)

	for _, name := range frames.Names() {
		dirs := directions[name]
		if len(dirs) == 0 {
			continue
		}
		slices.SortStableFunc(dirs, direction.Compare)
		initial, ok := frames.ShapeAt(name, dirs[0].Start())
		if !ok {
			continue
		}
		removal, removed := m.RemovalFrame(name)

		id := html.EscapeString(name)
		parts := svgParts(initial.Kind())
		if len(parts) > 1 {
			fmt.Fprintf(&sb, "<g id=\"%s\">\n", id)
		}
		for _, part := range parts {
			fmt.Fprintf(&sb, "<%s id=\"%s\"", part.tag, id+part.suffix)
			for _, a := range part.attrs(initial.Bounds()) {
				fmt.Fprintf(&sb, ` %s="%d"`, a.name, a.value)
			}
			visibility := "hidden"
			if dirs[0].Start() == 0 {
				visibility = "visible"
			}
			fmt.Fprintf(&sb, " fill=\"%s\" visibility=\"%s\">\n", fillColor(initial.Color()), visibility)

			if dirs[0].Start() > 0 {
				writeSet(&sb, "visibility", "visible", dirs[0].Start(), fps)
			}
			for _, d := range dirs[1:] {
				writeDirection(&sb, frames, part, name, d, fps)
			}
			if removed {
				writeSet(&sb, "visibility", "hidden", removal, fps)
			}
			fmt.Fprintf(&sb, "</%s>\n", part.tag)
		}
		if len(parts) > 1 {
			sb.WriteString("</g>\n")
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// writeDirection animates every attribute of part that d changes, from the
// state just before d starts to the state at its end.
func writeDirection(sb *strings.Builder, frames *timeline.Frames, part svgPart, name string, d *direction.Direction, fps int) {
	from, ok := frames.ShapeAt(name, d.Start()-1)
	if !ok {
		from, ok = frames.ShapeAt(name, d.Start())
	}
	to, ok2 := frames.ShapeAt(name, d.End())
	if !ok || !ok2 {
		return
	}

	switch d.Kind() {
	case direction.Move, direction.Resize:
		before, after := part.attrs(from.Bounds()), part.attrs(to.Bounds())
		for i, a := range before {
			if a.value != after[i].value {
				writeAnimate(sb, a.name, strconv.Itoa(a.value), strconv.Itoa(after[i].value), d.Start(), d.End(), fps)
			}
		}
	case direction.Color:
		writeAnimate(sb, "fill", fillColor(from.Color()), fillColor(to.Color()), d.Start(), d.End(), fps)
	}
}

func writeAnimate(sb *strings.Builder, attr, from, to string, start, end, fps int) {
	if start == end {
		writeSet(sb, attr, to, start, fps)
		return
	}
	fmt.Fprintf(sb, "  <animate attributeType=\"xml\" attributeName=\"%s\" begin=\"%dms\" dur=\"%dms\" from=\"%s\" to=\"%s\" fill=\"freeze\"/>\n",
		attr, millis(start, fps), millis(end, fps)-millis(start, fps), from, to)
}

func writeSet(sb *strings.Builder, attr, to string, frame, fps int) {
	fmt.Fprintf(sb, "  <set attributeType=\"xml\" attributeName=\"%s\" to=\"%s\" begin=\"%dms\" fill=\"freeze\"/>\n",
		attr, to, millis(frame, fps))
}

func millis(frame, fps int) int {
	return frame * 1000 / fps
}

func fillColor(c shape.Color) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// WriteSVG writes the SVG animation to w.
func WriteSVG(w io.Writer, m *timeline.Model, fps int) error {
	markup, err := SVG(m, fps)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, markup)
	return err
}
