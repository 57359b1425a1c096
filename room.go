package panoroom

import "github.com/golang/geo/r3"

// Room is the fixed box the visitor stands in. Immutable once a Scene is built.
type Room struct {
	Width, Height, Depth float64
}

// WallFrame is a wall's local coordinate frame in world space.
//
// U points toward the image's right edge, V toward its top edge and Normal
// into the room, so a hotspot at local (x, y, z) sits at
// Origin + U*x + V*y + Normal*z.
type WallFrame struct {
	Origin r3.Vector
	U      r3.Vector
	V      r3.Vector
	Normal r3.Vector
	// Width and Height are the wall's extent along U and V.
	Width, Height float64
}

// Point converts wall-local coordinates to a world position.
func (f WallFrame) Point(x, y, z float64) r3.Vector {
	return f.Origin.Add(f.U.Mul(x)).Add(f.V.Mul(y)).Add(f.Normal.Mul(z))
}

// WallSize returns the extent of a wall along its U and V axes. Vertical walls
// span width x height; the ceiling and floor span width x depth.
func (r Room) WallSize(w Wall) (width, height float64) {
	switch w {
	case WallLeft, WallRight:
		return r.Depth, r.Height
	case WallCeiling, WallFloor:
		return r.Width, r.Depth
	default:
		return r.Width, r.Height
	}
}

// Frame returns the local frame for wall w. The placement matches a plane
// at the wall center rotated so its front face looks into the room.
func (r Room) Frame(w Wall) WallFrame {
	width, height := r.WallSize(w)
	f := WallFrame{Width: width, Height: height}
	hw, hh, hd := r.Width/2, r.Height/2, r.Depth/2

	switch w {
	case WallBack:
		// rotated PI about Y
		f.Origin = r3.Vector{X: 0, Y: 0, Z: hd}
		f.U = r3.Vector{X: -1, Y: 0, Z: 0}
		f.V = r3.Vector{X: 0, Y: 1, Z: 0}
		f.Normal = r3.Vector{X: 0, Y: 0, Z: -1}
	case WallLeft:
		// rotated PI/2 about Y
		f.Origin = r3.Vector{X: -hw, Y: 0, Z: 0}
		f.U = r3.Vector{X: 0, Y: 0, Z: -1}
		f.V = r3.Vector{X: 0, Y: 1, Z: 0}
		f.Normal = r3.Vector{X: 1, Y: 0, Z: 0}
	case WallRight:
		// rotated -PI/2 about Y
		f.Origin = r3.Vector{X: hw, Y: 0, Z: 0}
		f.U = r3.Vector{X: 0, Y: 0, Z: 1}
		f.V = r3.Vector{X: 0, Y: 1, Z: 0}
		f.Normal = r3.Vector{X: -1, Y: 0, Z: 0}
	case WallCeiling:
		// rotated PI/2 about X
		f.Origin = r3.Vector{X: 0, Y: hh, Z: 0}
		f.U = r3.Vector{X: 1, Y: 0, Z: 0}
		f.V = r3.Vector{X: 0, Y: 0, Z: 1}
		f.Normal = r3.Vector{X: 0, Y: -1, Z: 0}
	case WallFloor:
		// rotated -PI/2 about X
		f.Origin = r3.Vector{X: 0, Y: -hh, Z: 0}
		f.U = r3.Vector{X: 1, Y: 0, Z: 0}
		f.V = r3.Vector{X: 0, Y: 0, Z: -1}
		f.Normal = r3.Vector{X: 0, Y: 1, Z: 0}
	default:
		f.Origin = r3.Vector{X: 0, Y: 0, Z: -hd}
		f.U = r3.Vector{X: 1, Y: 0, Z: 0}
		f.V = r3.Vector{X: 0, Y: 1, Z: 0}
		f.Normal = r3.Vector{X: 0, Y: 0, Z: 1}
	}
	return f
}
