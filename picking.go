package panoroom

import (
	"sort"

	"github.com/golang/geo/r3"
)

// Hit is a pointer ray crossing a hotspot plane.
type Hit struct {
	Hotspot *Hotspot
	// UV is the plane's surface coordinate, origin bottom-left.
	UV Vec2
	// Distance is along the ray from the camera.
	Distance float64
}

// intersectPlane intersects a ray with h's plane. Only the front face, the
// one looking into the room, is hit.
func intersectPlane(h *Hotspot, origin, dir r3.Vector) (Hit, bool) {
	f := h.frame
	denom := dir.Dot(f.Normal)
	if denom >= 0 {
		return Hit{}, false
	}
	t := h.world.Sub(origin).Dot(f.Normal) / denom
	if t <= 0 {
		return Hit{}, false
	}
	local := origin.Add(dir.Mul(t)).Sub(h.world)
	size := h.Placement.Size
	if size.X <= 0 || size.Y <= 0 {
		return Hit{}, false
	}
	uv := Vec2{
		X: local.Dot(f.U)/size.X + 0.5,
		Y: local.Dot(f.V)/size.Y + 0.5,
	}
	if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
		return Hit{}, false
	}
	return Hit{Hotspot: h, UV: uv, Distance: t}, true
}

// Pick casts a ray through screen point (sx, sy) and returns every hotspot
// plane it crosses, nearest first. buf is reused when large enough.
func Pick(cam *Camera, hotspots []*Hotspot, sx, sy float64, buf []Hit) []Hit {
	buf = buf[:0]
	origin, dir := cam.ScreenRay(sx, sy)
	for _, h := range hotspots {
		if hit, ok := intersectPlane(h, origin, dir); ok {
			buf = append(buf, hit)
		}
	}
	sort.SliceStable(buf, func(i, j int) bool {
		return buf[i].Distance < buf[j].Distance
	})
	return buf
}
