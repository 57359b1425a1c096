package panoroom

import (
	"math"

	"github.com/golang/geo/r3"
)

// worldUp is the room's up axis.
var worldUp = r3.Vector{X: 0, Y: 1, Z: 0}

// CameraPose is where the camera is, what it looks at and its vertical field
// of view in degrees.
type CameraPose struct {
	Position r3.Vector
	Target   r3.Vector
	FOV      float64
}

// Distance returns the distance from position to target.
func (p CameraPose) Distance() float64 {
	return p.Position.Sub(p.Target).Norm()
}

// ApproxEqual reports whether every component of p and o differs by at most eps.
func (p CameraPose) ApproxEqual(o CameraPose, eps float64) bool {
	return vecApproxEqual(p.Position, o.Position, eps) &&
		vecApproxEqual(p.Target, o.Target, eps) &&
		math.Abs(p.FOV-o.FOV) <= eps
}

func vec3(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

func vecApproxEqual(a, b r3.Vector, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// Camera is the perspective camera looking into the room. Pose is owned by
// the transition controller while animating and by the orbit controls while
// idle.
type Camera struct {
	Pose CameraPose
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
	// Near is the near clipping distance.
	Near float64
}

const defaultNear = 0.1

// newCamera creates a Camera with the given pose and viewport.
func newCamera(pose CameraPose, viewport Rect) *Camera {
	return &Camera{Pose: pose, Viewport: viewport, Near: defaultNear}
}

// cameraView is a snapshot of the camera basis used for projecting a frame.
type cameraView struct {
	eye                r3.Vector
	right, up, forward r3.Vector
	focal              float64
	centerX, centerY   float64
	near               float64
}

// view computes the camera basis from the current pose. Looking straight up
// or down swaps the reference up for the Z axis so ceiling and floor art
// stays upright.
func (c *Camera) view() cameraView {
	forward := c.Pose.Target.Sub(c.Pose.Position).Normalize()
	if forward.Norm2() == 0 {
		forward = r3.Vector{X: 0, Y: 0, Z: -1}
	}
	ref := worldUp
	if math.Abs(forward.Dot(ref)) > 0.999 {
		ref = r3.Vector{X: 0, Y: 0, Z: math.Copysign(1, forward.Y)}
	}
	right := forward.Cross(ref).Normalize()
	up := right.Cross(forward)

	fov := c.Pose.FOV
	if fov <= 0 || fov >= 180 {
		fov = 75
	}
	focal := (c.Viewport.Height / 2) / math.Tan(fov*math.Pi/360)

	return cameraView{
		eye:     c.Pose.Position,
		right:   right,
		up:      up,
		forward: forward,
		focal:   focal,
		centerX: c.Viewport.X + c.Viewport.Width/2,
		centerY: c.Viewport.Y + c.Viewport.Height/2,
		near:    c.Near,
	}
}

// toCamera returns p in camera space: x right, y up, z depth along forward.
func (v *cameraView) toCamera(p r3.Vector) r3.Vector {
	d := p.Sub(v.eye)
	return r3.Vector{X: d.Dot(v.right), Y: d.Dot(v.up), Z: d.Dot(v.forward)}
}

// project maps a camera-space point to the screen. ok is false behind the
// near plane.
func (v *cameraView) project(cp r3.Vector) (sx, sy float64, ok bool) {
	if cp.Z < v.near {
		return 0, 0, false
	}
	sx = v.centerX + cp.X*v.focal/cp.Z
	sy = v.centerY - cp.Y*v.focal/cp.Z
	return sx, sy, true
}

// ray returns the normalized world direction through screen point (sx, sy).
func (v *cameraView) ray(sx, sy float64) r3.Vector {
	dx := (sx - v.centerX) / v.focal
	dy := (v.centerY - sy) / v.focal
	return v.forward.Add(v.right.Mul(dx)).Add(v.up.Mul(dy)).Normalize()
}

// WorldToScreen converts a world position to screen coordinates. ok is false
// when the point is behind the near plane.
func (c *Camera) WorldToScreen(p r3.Vector) (sx, sy float64, ok bool) {
	v := c.view()
	return v.project(v.toCamera(p))
}

// ScreenRay returns the world-space ray from the camera through the screen
// point (sx, sy).
func (c *Camera) ScreenRay(sx, sy float64) (origin, dir r3.Vector) {
	v := c.view()
	return v.eye, v.ray(sx, sy)
}
