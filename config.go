package panoroom

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang/geo/r3"
)

// Duration is a time.Duration that reads and writes JSON as a Go duration
// string ("1.5s") or a number of seconds.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(val * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("duration: unexpected %T", v)
	}
	return nil
}

// Vec3 is the JSON form of a world point.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) r3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// AssetConfig controls where and how images are fetched.
type AssetConfig struct {
	// BaseURL is a local directory or an http(s) URL prefix.
	BaseURL        string   `json:"base_url"`
	RetryAttempts  int      `json:"retry_attempts"`
	RetryDelay     Duration `json:"retry_delay"`
	Timeout        Duration `json:"timeout"`
	MaxTextureSize int      `json:"max_texture_size"`
	// WallTextures maps wall names to their background image.
	WallTextures map[Wall]string `json:"wall_textures"`
}

// Config holds every tunable of a Scene. Zero fields in a loaded file keep
// their defaults.
type Config struct {
	RoomWidth    float64 `json:"room_width"`
	RoomHeight   float64 `json:"room_height"`
	RoomDepth    float64 `json:"room_depth"`
	RefWidth     float64 `json:"ref_width"`
	RefHeight    float64 `json:"ref_height"`
	ViewerHeight float64 `json:"viewer_height"`

	CameraPosition Vec3    `json:"camera_position"`
	CameraTarget   Vec3    `json:"camera_target"`
	FOV            float64 `json:"fov"`
	FocusedFOV     float64 `json:"focused_fov"`

	MinDistance     float64  `json:"min_distance"`
	// MaxDistance caps the orbit radius. The default is depth/2 - 1, the
	// same as RestoreDistance, instead of half the room's longest side
	// (83.34 for the exhibition). A restored camera then lands exactly on
	// the orbit limit and the initial pose is clamped to the same radius.
	MaxDistance     float64  `json:"max_distance"`
	RestoreDistance float64  `json:"restore_distance"`
	Transition      Duration `json:"transition"`
	DragDeadZone    float64  `json:"drag_dead_zone"`

	Assets AssetConfig `json:"assets"`
}

// Exhibition room constants.
const (
	defaultRoomHeight   = 150
	defaultRoomWidth    = 166.68 // 150 * 10 / 9
	defaultViewerHeight = 45
	defaultRefWidth     = 2000
	defaultRefHeight    = 1800
)

// DefaultAssetBase is the exhibition's public media bucket.
const DefaultAssetBase = "https://rest-exhibition.s3.ap-northeast-2.amazonaws.com/deploy_media"

// DefaultConfig returns the exhibition room: a 166.68 x 150 x 166.68 box with
// the visitor standing near the back wall looking at the center.
func DefaultConfig() Config {
	depth := defaultRoomWidth
	far := depth/2 - 1
	return Config{
		RoomWidth:    defaultRoomWidth,
		RoomHeight:   defaultRoomHeight,
		RoomDepth:    depth,
		RefWidth:     defaultRefWidth,
		RefHeight:    defaultRefHeight,
		ViewerHeight: defaultViewerHeight,

		CameraPosition: Vec3{X: 0, Y: defaultViewerHeight, Z: far},
		CameraTarget:   Vec3{},
		FOV:            75,
		FocusedFOV:     45,

		MinDistance:     0.5,
		MaxDistance:     far,
		RestoreDistance: far,
		Transition:      Duration(DefaultTransitionDuration * float64(time.Second)),
		DragDeadZone:    defaultDragDeadZone,

		Assets: AssetConfig{
			BaseURL:        DefaultAssetBase,
			RetryAttempts:  3,
			RetryDelay:     Duration(time.Second),
			Timeout:        Duration(30 * time.Second),
			MaxTextureSize: 2048,
			WallTextures: map[Wall]string{
				WallFront:   "walls/wall_photo.png",
				WallBack:    "walls/wall_walk.png",
				WallLeft:    "walls/wall_bus-stop.png",
				WallRight:   "walls/wall_home.png",
				WallCeiling: "walls/wall_ceiling.png",
				WallFloor:   "walls/wall_floor.png",
			},
		},
	}
}

// LoadConfig reads a JSON config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes JSON over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first nonsensical setting.
func (c Config) Validate() error {
	switch {
	case c.RoomWidth <= 0 || c.RoomHeight <= 0 || c.RoomDepth <= 0:
		return fmt.Errorf("config: room dimensions must be positive")
	case c.RefWidth <= 0 || c.RefHeight <= 0:
		return fmt.Errorf("config: reference size must be positive")
	case c.FOV <= 0 || c.FOV >= 180 || c.FocusedFOV <= 0 || c.FocusedFOV >= 180:
		return fmt.Errorf("config: field of view must be in (0, 180)")
	case c.MinDistance <= 0 || c.MaxDistance < c.MinDistance:
		return fmt.Errorf("config: need 0 < min_distance <= max_distance")
	case c.RestoreDistance <= 0:
		return fmt.Errorf("config: restore_distance must be positive")
	case c.Transition < 0:
		return fmt.Errorf("config: transition must not be negative")
	case c.Assets.RetryAttempts < 1:
		return fmt.Errorf("config: retry_attempts must be at least 1")
	}
	return nil
}

// Room returns the room box described by c.
func (c Config) Room() Room {
	return Room{Width: c.RoomWidth, Height: c.RoomHeight, Depth: c.RoomDepth}
}

// Mapper returns the geometry mapper for c.
func (c Config) Mapper() Mapper {
	return NewMapper(c.Room(), c.RefWidth, c.RefHeight)
}

// InitialPose returns the overview camera pose.
func (c Config) InitialPose() CameraPose {
	return CameraPose{
		Position: c.CameraPosition.r3(),
		Target:   c.CameraTarget.r3(),
		FOV:      c.FOV,
	}
}

func (c Config) transitionConfig() TransitionConfig {
	return TransitionConfig{
		MinDistance:     c.MinDistance,
		RestoreDistance: c.RestoreDistance,
		FocusedFOV:      c.FocusedFOV,
		Duration:        float32(time.Duration(c.Transition).Seconds()),
	}
}

func (c Config) orbitConfig() OrbitConfig {
	return OrbitConfig{
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
		Bounds:      c.Room(),
	}
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	Debug         bool
	// Script, if non-nil, drives the session and exits when it finishes.
	Script *TestRunner
}
