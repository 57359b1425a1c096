package panoroom

import (
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// quadSubdivisions is the grid resolution of every projected quad. Each cell
// is drawn with affine texture mapping, so finer grids hide perspective warp.
const quadSubdivisions = 12

// Wall colors while a wall texture has not loaded.
var wallFallbackColors = [len(Walls)]Color{
	WallFront:   {1, 0, 0, 1},
	WallBack:    {0, 1, 0, 1},
	WallLeft:    {0, 0, 1, 1},
	WallRight:   {1, 1, 0, 1},
	WallCeiling: {1, 0, 1, 1},
	WallFloor:   {0, 1, 1, 1},
}

// hoverTint is applied to a hovered hotspot whose hover overlay is missing.
var hoverTint = Color{0.75, 1, 0.75, 1}

// quad is one textured rectangle in world space.
type quad struct {
	center r3.Vector
	u, v   r3.Vector // unit axes
	width  float64
	height float64
	image  *ebiten.Image
	// src maps the quad's surface uv to overlay uv.
	src   UVTransform
	color Color
	depth float64
}

// appendQuad projects q through view as a subdivided grid and appends the
// visible cells to verts and inds. Cells with any corner behind the near
// plane are skipped. It returns the number of cells skipped.
func appendQuad(view *cameraView, q *quad, verts []ebiten.Vertex, inds []uint32) ([]ebiten.Vertex, []uint32, int) {
	const n = quadSubdivisions
	var texW, texH float64 = 1, 1
	if q.image != nil {
		b := q.image.Bounds()
		texW, texH = float64(b.Dx()), float64(b.Dy())
	}
	c := q.color.toRGBA()
	cr, cg, cb, ca := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255

	var grid [(n + 1) * (n + 1)]ebiten.Vertex
	var ok [(n + 1) * (n + 1)]bool
	for j := 0; j <= n; j++ {
		sv := float64(j) / n
		for i := 0; i <= n; i++ {
			su := float64(i) / n
			p := q.center.Add(q.u.Mul((su - 0.5) * q.width)).Add(q.v.Mul((sv - 0.5) * q.height))
			sx, sy, visible := view.project(view.toCamera(p))
			k := j*(n+1) + i
			ok[k] = visible
			if !visible {
				continue
			}
			t := q.src.Apply(Vec2{X: su, Y: sv})
			grid[k] = ebiten.Vertex{
				DstX:   float32(sx),
				DstY:   float32(sy),
				SrcX:   float32(t.X * texW),
				SrcY:   float32((1 - t.Y) * texH),
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			}
		}
	}

	skipped := 0
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			k00 := j*(n+1) + i
			k10 := k00 + 1
			k01 := k00 + n + 1
			k11 := k01 + 1
			if !ok[k00] || !ok[k10] || !ok[k01] || !ok[k11] {
				skipped++
				continue
			}
			base := uint32(len(verts))
			verts = append(verts, grid[k01], grid[k11], grid[k00], grid[k10])
			// Two triangles: TL-TR-BL, TR-BR-BL
			inds = append(inds,
				base+0, base+1, base+2,
				base+1, base+3, base+2,
			)
		}
	}
	return verts, inds, skipped
}

// wallQuad describes wall w for drawing.
func (s *Scene) wallQuad(w Wall, view *cameraView) quad {
	f := s.room.Frame(w)
	q := quad{
		center: f.Origin,
		u:      f.U,
		v:      f.V,
		width:  f.Width,
		height: f.Height,
		src:    UVTransform{Repeat: Vec2{X: 1, Y: 1}},
		color:  ColorWhite,
		depth:  view.toCamera(f.Origin).Z,
	}
	if tex := s.wallTextures[w]; tex != nil {
		q.image = tex
	} else {
		q.image = WhitePixel
		q.color = wallFallbackColors[w]
		q.src = UVTransform{Offset: Vec2{X: 0.5, Y: 0.5}}
	}
	return q
}

// hotspotQuad describes h for drawing. ok is false until its overlay has
// loaded.
func (s *Scene) hotspotQuad(h *Hotspot) (quad, bool) {
	hovered := s.sel.Hovered() == h
	img := h.texture
	color := ColorWhite
	if hovered {
		if h.hoverTexture != nil {
			img = h.hoverTexture
		} else {
			color = hoverTint
		}
	}
	if img == nil {
		return quad{}, false
	}
	return quad{
		center: h.world,
		u:      h.frame.U,
		v:      h.frame.V,
		width:  h.Placement.Size.X,
		height: h.Placement.Size.Y,
		image:  img,
		src:    h.Placement.UV,
		color:  color,
	}, true
}

// Draw renders the room from the scene camera. Walls are painted far to
// near, then each wall's hotspots in stacking order on top.
func (s *Scene) Draw(screen *ebiten.Image) {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	screen.Fill(s.ClearColor.toRGBA())

	b := screen.Bounds()
	if s.camera.Viewport.Width == 0 || s.camera.Viewport.Height == 0 {
		s.SetViewport(b.Dx(), b.Dy())
	}
	vp := s.camera.Viewport
	target := screen.SubImage(image.Rect(
		int(vp.X), int(vp.Y),
		int(vp.X+vp.Width), int(vp.Y+vp.Height),
	)).(*ebiten.Image)
	view := s.camera.view()

	walls := make([]quad, 0, len(Walls))
	for _, w := range Walls {
		walls = append(walls, s.wallQuad(w, &view))
	}
	sort.SliceStable(walls, func(i, j int) bool { return walls[i].depth > walls[j].depth })
	for i := range walls {
		stats.culledCount += s.drawQuad(target, &view, &walls[i])
		stats.quadCount++
	}

	for _, w := range Walls {
		list := append([]*Hotspot(nil), s.registry.Wall(w)...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rank < list[j].Rank })
		for _, h := range list {
			q, ok := s.hotspotQuad(h)
			if !ok {
				continue
			}
			stats.culledCount += s.drawQuad(target, &view, &q)
			stats.quadCount++
			stats.hotspotCount++
		}
	}

	if s.ShowHUD {
		ebitenutil.DebugPrint(screen, s.hudText())
	}

	if s.debug {
		stats.drawTime = time.Since(t0)
		s.debugLog(stats)
	}

	s.flushScreenshots(screen)
}

// drawQuad submits one quad and returns the number of cells skipped at the
// near plane.
func (s *Scene) drawQuad(target *ebiten.Image, view *cameraView, q *quad) int {
	var skipped int
	s.verts, s.indices, skipped = appendQuad(view, q, s.verts[:0], s.indices[:0])
	if len(s.indices) == 0 {
		return skipped
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(s.verts, s.indices, q.image, &triOp)
	return skipped
}

func (s *Scene) hudText() string {
	return fmt.Sprintf("state: %s\nhover: %s\nselected: %s\nFPS: %.1f",
		s.controller.State(), s.sel.HoveredID(), s.sel.SelectedID(), ebiten.ActualFPS())
}
