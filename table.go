package panoroom

import (
	"encoding/json"
	"fmt"
)

// hotspotFile is the JSON layout of a hotspot table:
//
//	{"walls": {"front": [{"id": "btn_p_go", "image": "btn_p_go.png"}, ...]}}
type hotspotFile struct {
	Walls map[Wall][]HotspotDef `json:"walls"`
}

// LoadHotspotTable parses a JSON hotspot table. Unknown wall names fail the
// whole table.
func LoadHotspotTable(jsonData []byte) (HotspotTable, error) {
	var f hotspotFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse hotspot table: %w", err)
	}
	if len(f.Walls) == 0 {
		return nil, fmt.Errorf("parse hotspot table: no walls")
	}
	return HotspotTable(f.Walls), nil
}

func stack(v int) *int { return &v }

// DefaultHotspotTable returns the exhibition's hotspot layout. Overlays are
// authored against the 2000x1800 reference; entries without a box cover the
// whole wall.
func DefaultHotspotTable() HotspotTable {
	return HotspotTable{
		WallFront: {
			{ID: "btn_p_go", Image: "btn_p_go.png"},
			{ID: "btn_p_tree", Image: "btn_p_tree.png", Stack: stack(-1)},
			{ID: "btn_p_note", Image: "btn_p_note.png"},
			{ID: "btn_p_pavilion", Image: "btn_p_pavilion.png"},
		},
		WallBack: {
			{ID: "btn_w_bridge", Image: "btn_w_bridge.png", Stack: stack(2),
				Box: &BBox{MinX: 0, MinY: 857, Width: 964, Height: 443}},
			{ID: "btn_w_walk", Image: "btn_w_walk.png", Stack: stack(0),
				Box: &BBox{MinX: 0, MinY: 419, Width: 1827, Height: 1381}},
			{ID: "btn_w_sun", Image: "btn_w_sun.png", Stack: stack(1),
				Box: &BBox{MinX: 0, MinY: 268, Width: 895, Height: 589}},
			{ID: "btn_w_sign", Image: "btn_w_sign.png", Stack: stack(3),
				Box: &BBox{MinX: 1580, MinY: 619, Width: 420, Height: 818}},
		},
		WallLeft: {
			{ID: "btn_b_busstop", Image: "btn_b_busstop.png"},
			{ID: "btn_b_bus", Image: "btn_b_bus.png"},
			{ID: "btn_b_home", Image: "btn_b_home.png"},
		},
		WallRight: {
			{ID: "btn_h_dog", Image: "btn_h_dog.png"},
			{ID: "btn_h_ribbon", Image: "btn_h_ribbon.png"},
			{ID: "btn_h_star", Image: "btn_h_star.png"},
			{ID: "btn_h_home", Image: "btn_h_home.png", Stack: stack(-1)},
		},
		WallCeiling: {
			{ID: "btn_c_lamp", Image: "btn_c_lamp.png"},
			{ID: "btn_c_heart", Image: "btn_c_heart.png"},
		},
		WallFloor: {
			{ID: "btn_f_rug", Image: "btn_f_rug.png"},
			{ID: "btn_f_phone", Image: "btn_f_phone.png"},
		},
	}
}
