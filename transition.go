package panoroom

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultTransitionDuration is the length of focus and restore tweens in seconds.
const DefaultTransitionDuration = 1.5

// poseFields is the number of scalar fields a pose tween drives.
const poseFields = 7

// Transition tweens a CameraPose toward a destination. Position, target and
// FOV move together on one eased progress curve so they finish on the same
// frame. Create one with TweenPose and call Update(dt) each frame.
//
// The pose is written in float64 from the eased progress; the final frame
// writes the destination exactly.
type Transition struct {
	progress *gween.Tween
	from     [poseFields]float64
	to       [poseFields]float64
	fields   [poseFields]*float64
	Done     bool
}

// TweenPose creates a Transition that animates pose to dest over duration
// seconds using the easing function. A non-positive duration jumps straight
// to dest on the first Update.
func TweenPose(pose *CameraPose, dest CameraPose, duration float32, fn ease.TweenFunc) *Transition {
	if fn == nil {
		fn = ease.InOutCubic
	}
	if duration <= 0 {
		duration = 1e-6
	}
	t := &Transition{progress: gween.New(0, 1, duration, fn)}
	t.fields = [poseFields]*float64{
		&pose.Position.X, &pose.Position.Y, &pose.Position.Z,
		&pose.Target.X, &pose.Target.Y, &pose.Target.Z,
		&pose.FOV,
	}
	t.to = [poseFields]float64{
		dest.Position.X, dest.Position.Y, dest.Position.Z,
		dest.Target.X, dest.Target.Y, dest.Target.Z,
		dest.FOV,
	}
	for i, f := range t.fields {
		t.from[i] = *f
	}
	return t
}

// Update advances the tween by dt seconds and writes the interpolated pose.
func (t *Transition) Update(dt float32) {
	if t.Done {
		return
	}
	p, finished := t.progress.Update(dt)
	if finished {
		for i, f := range t.fields {
			*f = t.to[i]
		}
		t.Done = true
		return
	}
	k := float64(p)
	for i, f := range t.fields {
		*f = t.from[i] + (t.to[i]-t.from[i])*k
	}
}

// Destination returns the pose the transition ends at.
func (t *Transition) Destination() CameraPose {
	return CameraPose{
		Position: vec3(t.to[0], t.to[1], t.to[2]),
		Target:   vec3(t.to[3], t.to[4], t.to[5]),
		FOV:      t.to[6],
	}
}
