// Package renderer turns a timeline model into a directions log or raster frames.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/ivlev/shapeanim/internal/timeline"
)

const textHeader = "# (st) == start time; (et) == end time (fps : %d)\n" +
	"# (x,y) == position\n" +
	"# (w,h) == dimensions\n" +
	"# (r,g,b) == color (with values between 0 and 255)\n" +
	"#                  start                           end"

const columnHeader = "#          st   x   y   w   h   r   g   b   et   x   y   w   h   r   g   b\n"

// Text renders the directions log: every shape followed by one line per
// direction with the shape state at its start and end, times in seconds.
func Text(m *timeline.Model, fps int) (string, error) {
	shapes := m.Shapes()
	if len(shapes) == 0 {
		return "There are no shapes to display.\n", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, textHeader, fps)

	directions := m.Directions()
	for _, s := range shapes {
		name := s.Name()
		fmt.Fprintf(&sb, "\nshape %s %s\n", name, s.Kind())
		sb.WriteString(columnHeader)

		for _, d := range directions[name] {
			before, ok, err := m.ShapeAtFrame(name, max(d.Start()-1, 0))
			if err != nil {
				return "", fmt.Errorf("describe %s: %w", d, err)
			}
			if !ok {
				before = s
			}
			sb.WriteString(d.Describe(before, fps))
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// WriteText writes the directions log to w.
func WriteText(w io.Writer, m *timeline.Model, fps int) error {
	text, err := Text(m, fps)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
