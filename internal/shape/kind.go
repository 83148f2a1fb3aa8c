package shape

import (
	"strings"

	"github.com/ivlev/shapeanim/internal/animerr"
)

// Kind is the geometric type of a shape, fixed at construction.
type Kind int

const (
	Rectangle Kind = iota
	Oval
	Plus
)

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "RECTANGLE"
	case Oval:
		return "OVAL"
	case Plus:
		return "PLUS"
	default:
		return "UNKNOWN"
	}
}

// ParseKind resolves a kind name as written in animation scripts.
// "ellipse" is accepted as an alias for oval.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangle", "rect":
		return Rectangle, nil
	case "oval", "ellipse":
		return Oval, nil
	case "plus":
		return Plus, nil
	default:
		return 0, animerr.Invalidf("unknown shape kind %q", s)
	}
}

// Anchor decides whether a shape's (x, y) is its center or its top-left corner.
type Anchor int

const (
	AnchorCorner Anchor = iota
	AnchorCenter
)

func (a Anchor) String() string {
	if a == AnchorCenter {
		return "CENTER"
	}
	return "CORNER"
}

// DefaultAnchor returns the anchor used when a script does not name one.
func DefaultAnchor(k Kind) Anchor {
	if k == Oval {
		return AnchorCenter
	}
	return AnchorCorner
}
