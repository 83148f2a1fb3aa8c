// Package director converts between YAML scenarios and timeline models.
package director

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ivlev/shapeanim/internal/timeline"
)

// Apply feeds a scenario into a builder. Consecutive keyframes of a track
// become one motion each; a track with a single keyframe is created and held.
func Apply(scenario *Scenario, b *timeline.Builder) error {
	if c := scenario.Canvas; c != nil {
		if err := b.SetBounds(c.X, c.Y, c.Width, c.Height); err != nil {
			return fmt.Errorf("canvas: %w", err)
		}
	}

	for _, track := range scenario.Shapes {
		if err := b.DeclareShape(track.Name, track.Kind); err != nil {
			return err
		}

		keyframes := track.Keyframes
		if len(keyframes) == 1 {
			keyframes = []Keyframe{keyframes[0], keyframes[0]}
		}
		for i := 1; i < len(keyframes); i++ {
			if err := addMotion(b, track.Name, keyframes[i-1], keyframes[i]); err != nil {
				return fmt.Errorf("shape %q keyframe %d: %w", track.Name, i, err)
			}
		}

		if track.Remove != nil {
			if err := b.RemoveShape(track.Name, *track.Remove); err != nil {
				return err
			}
		}
	}
	return nil
}

func addMotion(b *timeline.Builder, name string, from, to Keyframe) error {
	r1, g1, b1, err := from.RGB()
	if err != nil {
		return err
	}
	r2, g2, b2, err := to.RGB()
	if err != nil {
		return err
	}
	return b.AddMotion(name,
		from.T, from.X, from.Y, from.W, from.H, r1, g1, b1,
		to.T, to.X, to.Y, to.W, to.H, r2, g2, b2)
}

// Load reads a scenario file and returns the initialized model it describes.
func Load(path string) (*timeline.Model, error) {
	scenario, err := ReadScenario(path)
	if err != nil {
		return nil, err
	}

	b := timeline.NewBuilder()
	if err := Apply(scenario, b); err != nil {
		return nil, fmt.Errorf("apply %s: %w", path, err)
	}

	m := b.Build()
	if err := m.InitializeAnimation(); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", path, err)
	}
	return m, nil
}

// Capture describes a model as a scenario. Each shape gets a keyframe at every
// frame where one of its directions starts or ends, taken from the frame cache,
// so applying the result reproduces the same state at those frames.
func Capture(m *timeline.Model) (*Scenario, error) {
	frames, err := m.Frames()
	if err != nil {
		return nil, err
	}

	bounds := m.Bounds()
	scenario := &Scenario{
		Version: Version,
		Canvas:  &Canvas{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height},
	}

	directions := m.Directions()
	for _, name := range frames.Names() {
		dirs, ok := directions[name]
		if !ok {
			continue
		}
		s, _ := m.Shape(name)
		track := Track{Name: name, Kind: strings.ToLower(s.Kind().String())}

		var boundaries []int
		for _, d := range dirs {
			boundaries = append(boundaries, d.Start(), d.End())
		}
		slices.Sort(boundaries)
		for _, t := range slices.Compact(boundaries) {
			snap, ok := frames.ShapeAt(name, t)
			if !ok {
				continue
			}
			track.Keyframes = append(track.Keyframes, Keyframe{
				T:     t,
				X:     snap.X() + bounds.X,
				Y:     snap.Y() + bounds.Y,
				W:     snap.Width(),
				H:     snap.Height(),
				Color: HexColor(snap.Color()),
			})
		}

		if frame, ok := m.RemovalFrame(name); ok {
			track.Remove = &frame
		}
		scenario.Shapes = append(scenario.Shapes, track)
	}
	return scenario, nil
}
