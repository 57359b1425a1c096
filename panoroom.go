package panoroom

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for surface UVs, wall-plane offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// WhitePixel is a 1x1 white image used for untextured walls.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Wall identifies one of the six faces of the room.
type Wall uint8

const (
	WallFront   Wall = iota // z = -D/2, faces +z
	WallBack                // z = +D/2, faces -z
	WallLeft                // x = -W/2, faces +x
	WallRight               // x = +W/2, faces -x
	WallCeiling             // y = +H/2, faces -y
	WallFloor               // y = -H/2, faces +y
)

// Walls lists every wall in canonical build order.
var Walls = [...]Wall{WallFront, WallBack, WallLeft, WallRight, WallCeiling, WallFloor}

var wallNames = [...]string{"front", "back", "left", "right", "ceiling", "floor"}

func (w Wall) String() string {
	if int(w) < len(wallNames) {
		return wallNames[w]
	}
	return fmt.Sprintf("Wall(%d)", uint8(w))
}

// Valid reports whether w names one of the six walls.
func (w Wall) Valid() bool {
	return int(w) < len(wallNames)
}

// ParseWall returns the wall with the given lowercase name.
func ParseWall(name string) (Wall, error) {
	for i, n := range wallNames {
		if n == name {
			return Wall(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWall, name)
}

// MarshalText implements encoding.TextMarshaler so walls can key JSON maps.
func (w Wall) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWall, uint8(w))
	}
	return []byte(wallNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Wall) UnmarshalText(text []byte) error {
	parsed, err := ParseWall(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// State is the camera transition controller's state.
type State uint8

const (
	StateIdle      State = iota // orbit enabled, no saved view
	StateAnimating              // a transition is running, orbit disabled
	StateFocused                // close-up on a hotspot, awaiting restore
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StateFocused:
		return "focused"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// EventType identifies a kind of hotspot event.
type EventType uint8

const (
	EventHoverEnter   EventType = iota // a hotspot became the hovered one
	EventHoverLeave                    // the hovered hotspot lost hover
	EventFocusStart                    // the camera started moving toward a hotspot
	EventFocused                       // the focus transition finished
	EventRestoreStart                  // the camera started returning to the saved view
	EventRestored                      // the restore transition finished
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button, pans the orbit
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
