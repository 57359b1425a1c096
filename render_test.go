package panoroom

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
)

const cells = quadSubdivisions * quadSubdivisions

// facingQuad is a 2x2 quad at the origin facing testCamera.
func facingQuad() quad {
	return quad{
		u:      r3.Vector{X: 1},
		v:      r3.Vector{Y: 1},
		width:  2,
		height: 2,
		src:    UVTransform{Repeat: Vec2{X: 1, Y: 1}},
		color:  ColorWhite,
	}
}

func TestAppendQuadFullyVisible(t *testing.T) {
	view := testCamera().view()
	q := facingQuad()
	verts, inds, skipped := appendQuad(&view, &q, nil, nil)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(verts) != 4*cells || len(inds) != 6*cells {
		t.Errorf("verts/inds = %d/%d, want %d/%d", len(verts), len(inds), 4*cells, 6*cells)
	}
	for _, i := range inds {
		if int(i) >= len(verts) {
			t.Fatalf("index %d out of range", i)
		}
	}
}

func TestAppendQuadCorners(t *testing.T) {
	view := testCamera().view()
	q := facingQuad()
	verts, _, _ := appendQuad(&view, &q, nil, nil)

	// The first vertex of the top-left cell is the quad's top-left corner:
	// world (-1, 1, 0) at depth 10 with focal 300.
	tl := verts[4*(quadSubdivisions-1)*quadSubdivisions]
	if !approxEqual(float64(tl.DstX), 370, 1e-3) || !approxEqual(float64(tl.DstY), 270, 1e-3) {
		t.Errorf("top-left dst = (%f,%f), want (370,270)", tl.DstX, tl.DstY)
	}
	// Texture row 0 is the top of the image.
	if tl.SrcX != 0 || tl.SrcY != 0 {
		t.Errorf("top-left src = (%f,%f), want (0,0)", tl.SrcX, tl.SrcY)
	}
	// The third vertex of the first cell is the quad's bottom-left corner.
	bl := verts[2]
	if !approxEqual(float64(bl.DstY), 330, 1e-3) || bl.SrcY != 1 {
		t.Errorf("bottom-left = %+v, want DstY 330 and SrcY 1", bl)
	}
}

func TestAppendQuadNearPlaneSkips(t *testing.T) {
	view := testCamera().view()
	// Runs from z=8 to z=12 through the camera at z=10.
	q := quad{
		center: r3.Vector{Z: 10},
		u:      r3.Vector{Z: 1},
		v:      r3.Vector{Y: 1},
		width:  4,
		height: 2,
		src:    UVTransform{Repeat: Vec2{X: 1, Y: 1}},
		color:  ColorWhite,
	}
	verts, _, skipped := appendQuad(&view, &q, nil, nil)
	// Columns z = 8 + i/3 are in front of the near plane for i <= 5, so five
	// cell columns survive.
	drawn := 5 * quadSubdivisions
	if skipped != cells-drawn {
		t.Errorf("skipped = %d, want %d", skipped, cells-drawn)
	}
	if len(verts) != 4*drawn {
		t.Errorf("verts = %d, want %d", len(verts), 4*drawn)
	}
}

func TestAppendQuadAppends(t *testing.T) {
	view := testCamera().view()
	q := facingQuad()
	verts, inds, _ := appendQuad(&view, &q, nil, nil)
	verts, inds, _ = appendQuad(&view, &q, verts, inds)
	if len(verts) != 8*cells {
		t.Fatalf("verts = %d, want %d", len(verts), 8*cells)
	}
	// Second batch indices start past the first batch.
	if inds[6*cells] != uint32(4*cells) {
		t.Errorf("first index of second quad = %d, want %d", inds[6*cells], 4*cells)
	}
}

func TestWallQuadFallback(t *testing.T) {
	s, _ := newTestScene(t)
	view := s.Camera().view()
	q := s.wallQuad(WallFloor, &view)
	if q.image != WhitePixel || q.color != wallFallbackColors[WallFloor] {
		t.Errorf("untextured floor = %+v", q)
	}
	tex := ebiten.NewImage(4, 4)
	s.wallTextures[WallFloor] = tex
	q = s.wallQuad(WallFloor, &view)
	if q.image != tex || q.color != ColorWhite {
		t.Error("textured floor should draw its texture untinted")
	}
}

func TestWallDepthOrder(t *testing.T) {
	s, _ := newTestScene(t)
	view := s.Camera().view()
	// The camera stands near the back wall looking at the front one.
	front := s.wallQuad(WallFront, &view)
	back := s.wallQuad(WallBack, &view)
	if front.depth <= back.depth {
		t.Errorf("front depth %f should exceed back depth %f", front.depth, back.depth)
	}
}

func TestHotspotQuad(t *testing.T) {
	s, _ := newTestScene(t)
	h, _ := s.Registry().Hotspot("left")
	if _, ok := s.hotspotQuad(h); ok {
		t.Fatal("hotspot without a texture should not draw")
	}

	h.texture = ebiten.NewImage(4, 4)
	q, ok := s.hotspotQuad(h)
	if !ok || q.image != h.texture || q.color != ColorWhite {
		t.Errorf("idle quad = %+v", q)
	}
	if q.src != h.Placement.UV || q.center != h.WorldPosition() {
		t.Error("quad does not follow the hotspot placement")
	}

	// Hovered without a hover overlay: tinted base.
	s.sel.hovered = h
	q, _ = s.hotspotQuad(h)
	if q.image != h.texture || q.color != hoverTint {
		t.Errorf("hovered quad without overlay = %+v", q)
	}

	h.hoverTexture = ebiten.NewImage(4, 4)
	q, _ = s.hotspotQuad(h)
	if q.image != h.hoverTexture || q.color != ColorWhite {
		t.Errorf("hovered quad = %+v", q)
	}
}

func TestSceneDraw(t *testing.T) {
	s, _ := newTestScene(t)
	h, _ := s.Registry().Hotspot("right")
	h.texture = ebiten.NewImage(4, 4)
	s.ShowHUD = true

	screen := ebiten.NewImage(320, 240)
	s.SetViewport(320, 240)
	s.Draw(screen) // should not panic
	if len(s.verts) == 0 {
		t.Error("draw produced no vertices")
	}
}
