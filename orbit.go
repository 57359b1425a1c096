package panoroom

import (
	"math"

	"github.com/golang/geo/r3"
)

// maxElevation keeps the orbit just short of the poles, where the view basis
// would flip.
const maxElevation = math.Pi/2 - 0.01

// OrbitConfig tunes the user orbit controls.
type OrbitConfig struct {
	MinDistance float64
	MaxDistance float64
	// RotateSpeed is radians per dragged pixel.
	RotateSpeed float64
	// ZoomSpeed is the fractional distance change per wheel step.
	ZoomSpeed float64
	// PanSpeed scales pan distance relative to the orbit radius.
	PanSpeed float64
	// Bounds, if non-zero, keeps the orbit target inside a centered box of
	// this size.
	Bounds Room
}

// Orbit moves the camera around its target in spherical coordinates. It
// holds no pose of its own: every call reads the camera pose, applies the
// change and writes it back. The scene only calls it while the transition
// controller reports orbit enabled.
type Orbit struct {
	cfg    OrbitConfig
	camera *Camera
}

// NewOrbit creates orbit controls for camera and clamps its current pose to
// the configured distance range.
func NewOrbit(cfg OrbitConfig, camera *Camera) *Orbit {
	if cfg.RotateSpeed == 0 {
		cfg.RotateSpeed = 0.005
	}
	if cfg.ZoomSpeed == 0 {
		cfg.ZoomSpeed = 0.05
	}
	if cfg.PanSpeed == 0 {
		cfg.PanSpeed = 0.002
	}
	o := &Orbit{cfg: cfg, camera: camera}
	o.Sync()
	return o
}

// spherical returns radius, azimuth and elevation of the position around the
// target. Azimuth 0 looks down -Z.
func spherical(pose CameraPose) (radius, azimuth, elevation float64) {
	d := pose.Position.Sub(pose.Target)
	radius = d.Norm()
	if radius == 0 {
		return 0, 0, 0
	}
	elevation = math.Asin(clampUnit(d.Y / radius))
	azimuth = math.Atan2(d.X, d.Z)
	return radius, azimuth, elevation
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func (o *Orbit) place(radius, azimuth, elevation float64) {
	cosE := math.Cos(elevation)
	t := o.camera.Pose.Target
	o.camera.Pose.Position = r3.Vector{
		X: t.X + radius*cosE*math.Sin(azimuth),
		Y: t.Y + radius*math.Sin(elevation),
		Z: t.Z + radius*cosE*math.Cos(azimuth),
	}
}

func (o *Orbit) clampRadius(r float64) float64 {
	if o.cfg.MinDistance > 0 && r < o.cfg.MinDistance {
		r = o.cfg.MinDistance
	}
	if o.cfg.MaxDistance > 0 && r > o.cfg.MaxDistance {
		r = o.cfg.MaxDistance
	}
	return r
}

// Sync re-applies the distance and elevation limits to the current pose.
// A pose already inside the limits is left untouched.
func (o *Orbit) Sync() {
	r, az, el := spherical(o.camera.Pose)
	if r == 0 {
		return
	}
	cr := o.clampRadius(r)
	ce := math.Max(-maxElevation, math.Min(maxElevation, el))
	if cr == r && ce == el {
		return
	}
	o.place(cr, az, ce)
}

// Rotate orbits by a pointer drag of (dx, dy) pixels. Dragging right swings
// the camera left around the target, like grabbing the room.
func (o *Orbit) Rotate(dx, dy float64) {
	r, az, el := spherical(o.camera.Pose)
	if r == 0 {
		return
	}
	az -= dx * o.cfg.RotateSpeed
	el += dy * o.cfg.RotateSpeed
	el = math.Max(-maxElevation, math.Min(maxElevation, el))
	o.place(r, az, el)
}

// Zoom moves the camera toward the target for positive steps and away for
// negative ones, clamped to the distance range.
func (o *Orbit) Zoom(steps float64) {
	r, az, el := spherical(o.camera.Pose)
	if r == 0 {
		return
	}
	r = o.clampRadius(r * math.Pow(1-o.cfg.ZoomSpeed, steps))
	o.place(r, az, el)
}

// Pan slides target and camera together along the view plane by a pointer
// drag of (dx, dy) pixels.
func (o *Orbit) Pan(dx, dy float64) {
	v := o.camera.view()
	scale := o.camera.Pose.Distance() * o.cfg.PanSpeed
	delta := v.right.Mul(-dx * scale).Add(v.up.Mul(dy * scale))

	target := o.camera.Pose.Target.Add(delta)
	if b := o.cfg.Bounds; b.Width > 0 && b.Height > 0 && b.Depth > 0 {
		target.X = math.Max(-b.Width/2, math.Min(b.Width/2, target.X))
		target.Y = math.Max(-b.Height/2, math.Min(b.Height/2, target.Y))
		target.Z = math.Max(-b.Depth/2, math.Min(b.Depth/2, target.Z))
	}
	delta = target.Sub(o.camera.Pose.Target)
	o.camera.Pose.Target = target
	o.camera.Pose.Position = o.camera.Pose.Position.Add(delta)
}
