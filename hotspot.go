package panoroom

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
)

// Registry construction errors.
var (
	ErrUnknownWall      = errors.New("unknown wall")
	ErrDuplicateHotspot = errors.New("duplicate hotspot id")
	ErrEmptyHotspotID   = errors.New("empty hotspot id")
)

// Stacking bias along the wall normal. The lowest-ranked hotspot on a wall
// sits zBiasBase in front of it; each further rank adds zBiasStep.
const (
	zBiasBase = 0.01
	zBiasStep = 0.01
)

// HotspotDef is one row of the static hotspot metadata table.
type HotspotDef struct {
	ID string `json:"id"`
	// Box is the hotspot's extent in the reference image. Nil means the
	// overlay covers the whole wall.
	Box *BBox `json:"bbox,omitempty"`
	// Image is the base overlay. HoverImage defaults to Image with a
	// "_hover" suffix before the extension.
	Image      string `json:"image"`
	HoverImage string `json:"hover_image,omitempty"`
	// Stack overrides the hotspot's list index when ordering it against its
	// siblings. Lower values sit closer to the wall.
	Stack *int `json:"stack,omitempty"`
}

// HotspotTable maps each wall to its ordered hotspot definitions.
type HotspotTable map[Wall][]HotspotDef

// Hotspot is a clickable overlay region on a wall. Everything but the
// decoded images is fixed at registry build time.
type Hotspot struct {
	ID         string
	Wall       Wall
	Box        BBox
	Image      string
	HoverImage string

	// Index is the position in the wall's metadata list; Rank is the
	// resolved stacking order among the wall's hotspots.
	Index int
	Rank  int
	// ZBias is the offset along the wall normal that keeps overlapping
	// hotspots from z-fighting.
	ZBias     float64
	Placement Placement

	frame WallFrame
	world r3.Vector

	alpha        *AlphaBuffer
	hoverAlpha   *AlphaBuffer
	texture      *ebiten.Image
	hoverTexture *ebiten.Image
}

// WorldPosition returns the hotspot plane's center in world space.
func (h *Hotspot) WorldPosition() r3.Vector {
	return h.world
}

// Frame returns the frame of the wall the hotspot lives on.
func (h *Hotspot) Frame() WallFrame {
	return h.frame
}

// Ready reports whether the base overlay has been decoded.
func (h *Hotspot) Ready() bool {
	return h.alpha != nil
}

// Alpha returns the base overlay's alpha buffer, or nil while loading.
func (h *Hotspot) Alpha() *AlphaBuffer {
	return h.alpha
}

// SetAlpha installs decoded alpha data for the base and hover overlays.
// Either may be nil. The game loop calls this when an asset arrives.
func (h *Hotspot) SetAlpha(base, hover *AlphaBuffer) {
	if base != nil {
		h.alpha = base
	}
	if hover != nil {
		h.hoverAlpha = hover
	}
}

// HitTest reports whether a pointer at surface uv (the plane's own 0..1
// coordinates) is over an opaque overlay pixel. While hovered, the hover
// variant is tested once it has loaded. Not-ready hotspots never hit.
func (h *Hotspot) HitTest(uv Vec2, hovered bool) bool {
	buf := h.alpha
	if hovered && h.hoverAlpha != nil {
		buf = h.hoverAlpha
	}
	return HitTest(buf, h.Placement.UV.Apply(uv))
}

// HoverName derives the hover-variant asset name: "a/b.png" -> "a/b_hover.png".
func HoverName(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_hover" + ext
}

// Registry holds every hotspot, grouped by wall in metadata order. It is
// built once and never reordered.
type Registry struct {
	mapper Mapper
	walls  [len(Walls)][]*Hotspot
	all    []*Hotspot
	byID   map[string]*Hotspot
}

// NewRegistry builds hotspots from table. Walls are processed in canonical
// order; a missing wall, empty id or duplicate id aborts construction.
func NewRegistry(mapper Mapper, table HotspotTable) (*Registry, error) {
	for w := range table {
		if !w.Valid() {
			return nil, fmt.Errorf("build registry: %w: %d", ErrUnknownWall, uint8(w))
		}
	}

	r := &Registry{mapper: mapper, byID: make(map[string]*Hotspot)}
	for _, wall := range Walls {
		defs := table[wall]
		if len(defs) == 0 {
			continue
		}
		frame := mapper.Room.Frame(wall)
		list := make([]*Hotspot, 0, len(defs))
		for i, def := range defs {
			if def.ID == "" {
				return nil, fmt.Errorf("build registry: %s[%d]: %w", wall, i, ErrEmptyHotspotID)
			}
			if _, dup := r.byID[def.ID]; dup {
				return nil, fmt.Errorf("build registry: %w: %q", ErrDuplicateHotspot, def.ID)
			}
			box := mapper.FullBox()
			if def.Box != nil {
				box = *def.Box
			}
			hover := def.HoverImage
			if hover == "" && def.Image != "" {
				hover = HoverName(def.Image)
			}
			h := &Hotspot{
				ID:         def.ID,
				Wall:       wall,
				Box:        box,
				Image:      def.Image,
				HoverImage: hover,
				Index:      i,
				Placement:  mapper.Map(box, wall),
				frame:      frame,
			}
			r.byID[h.ID] = h
			list = append(list, h)
		}
		resolveStacking(list, defs)
		for _, h := range list {
			h.world = frame.Point(h.Placement.Center.X, h.Placement.Center.Y, h.ZBias)
		}
		r.walls[wall] = list
		r.all = append(r.all, list...)
	}
	return r, nil
}

// resolveStacking ranks a wall's hotspots by (stack override or index, index)
// and assigns each a distinct, increasing z-bias.
func resolveStacking(list []*Hotspot, defs []HotspotDef) {
	order := func(h *Hotspot) int {
		if s := defs[h.Index].Stack; s != nil {
			return *s
		}
		return h.Index
	}
	ranked := make([]*Hotspot, len(list))
	copy(ranked, list)
	sort.SliceStable(ranked, func(i, j int) bool {
		oi, oj := order(ranked[i]), order(ranked[j])
		if oi != oj {
			return oi < oj
		}
		return ranked[i].Index < ranked[j].Index
	})
	for rank, h := range ranked {
		h.Rank = rank
		h.ZBias = zBiasBase + zBiasStep*float64(rank)
	}
}

// Wall returns the hotspots on w in metadata order. The returned slice MUST
// NOT be mutated.
func (r *Registry) Wall(w Wall) []*Hotspot {
	if !w.Valid() {
		return nil
	}
	return r.walls[w]
}

// All returns every hotspot, wall by wall in canonical order. The returned
// slice MUST NOT be mutated.
func (r *Registry) All() []*Hotspot {
	return r.all
}

// Hotspot looks up a hotspot by id.
func (r *Registry) Hotspot(id string) (*Hotspot, bool) {
	h, ok := r.byID[id]
	return h, ok
}

// Len returns the number of hotspots.
func (r *Registry) Len() int {
	return len(r.all)
}

// Mapper returns the mapper the registry was built with.
func (r *Registry) Mapper() Mapper {
	return r.mapper
}
