package director

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/shapeanim/internal/shape"
)

// Version is the scenario format written by WriteScenario.
const Version = "1.0"

// Scenario represents a complete animation script
type Scenario struct {
	Version string  `yaml:"version"`
	Canvas  *Canvas `yaml:"canvas,omitempty"`
	Shapes  []Track `yaml:"shapes"`
}

// Canvas is the visible area; keyframe coordinates are given in its space
type Canvas struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Track is one shape with its keyframes
type Track struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Keyframes []Keyframe `yaml:"keyframes"`
	Remove    *int       `yaml:"remove,omitempty"` // Frame at which the shape disappears
}

// Keyframe is the full state of a shape at frame T
type Keyframe struct {
	T     int    `yaml:"t"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	W     int    `yaml:"w"`
	H     int    `yaml:"h"`
	Color string `yaml:"color"` // #rrggbb
}

// RGB decodes the keyframe color.
func (k Keyframe) RGB() (r, g, b int, err error) {
	c, err := colorful.Hex(k.Color)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad color %q at frame %d: %w", k.Color, k.T, err)
	}
	r8, g8, b8 := c.RGB255()
	return int(r8), int(g8), int(b8), nil
}

// HexColor encodes a shape color as #rrggbb.
func HexColor(c shape.Color) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
