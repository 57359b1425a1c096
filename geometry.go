package panoroom

// BBox is a hotspot's bounding box in reference-image pixel space, origin at
// the top-left, Y down.
type BBox struct {
	MinX   float64 `json:"min_x"`
	MinY   float64 `json:"min_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UVTransform maps a hotspot plane's surface UV into its overlay texture.
type UVTransform struct {
	Repeat Vec2
	Offset Vec2
}

// Apply returns offset + uv*repeat.
func (t UVTransform) Apply(uv Vec2) Vec2 {
	return Vec2{
		X: t.Offset.X + uv.X*t.Repeat.X,
		Y: t.Offset.Y + uv.Y*t.Repeat.Y,
	}
}

// Placement is the wall-local layout of a hotspot plane.
type Placement struct {
	// Center is the plane center on the wall, origin at the wall center,
	// X along the wall's U axis and Y along its V axis.
	Center Vec2
	// Size is the plane's width and height in room units.
	Size Vec2
	// UV crops the reference-space overlay down to the box.
	UV UVTransform
}

// Mapper converts reference-image boxes into wall placements. It is a pure
// value: the same box and wall always produce the same Placement.
type Mapper struct {
	Room      Room
	RefWidth  float64
	RefHeight float64
}

// NewMapper creates a Mapper for the given room and reference resolution.
func NewMapper(room Room, refWidth, refHeight float64) Mapper {
	return Mapper{Room: room, RefWidth: refWidth, RefHeight: refHeight}
}

// FullBox returns the box covering the whole reference image.
func (m Mapper) FullBox() BBox {
	return BBox{Width: m.RefWidth, Height: m.RefHeight}
}

// Map lays out box on wall.
//
//	posX   = (centerX/refW - 0.5) * wallWidth
//	posY   = (0.5 - centerY/refH) * wallHeight
//	size   = (width/refW*wallWidth, height/refH*wallHeight)
//	repeat = (width/refW, height/refH)
//	offset = (minX/refW, 1 - (minY+height)/refH)
func (m Mapper) Map(box BBox, wall Wall) Placement {
	wallW, wallH := m.Room.WallSize(wall)

	centerX := box.MinX + box.Width/2
	centerY := box.MinY + box.Height/2

	return Placement{
		Center: Vec2{
			X: (centerX/m.RefWidth - 0.5) * wallW,
			Y: (0.5 - centerY/m.RefHeight) * wallH,
		},
		Size: Vec2{
			X: box.Width / m.RefWidth * wallW,
			Y: box.Height / m.RefHeight * wallH,
		},
		UV: UVTransform{
			Repeat: Vec2{X: box.Width / m.RefWidth, Y: box.Height / m.RefHeight},
			Offset: Vec2{X: box.MinX / m.RefWidth, Y: 1 - (box.MinY+box.Height)/m.RefHeight},
		},
	}
}
