package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds general game configuration
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Vec3 is a world-space position in config files.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// AvatarConfig contains avatar tuning and body dimensions
type AvatarConfig struct {
	StartHealth   float32 `yaml:"startHealth"`
	ContactDamage float32 `yaml:"contactDamage"` // on the first tick of a beam contact
	DamageRate    float32 `yaml:"damageRate"`    // per second while the contact continues

	Height float64 `yaml:"height"` // overlay anchor above the feet
	Radius float64 `yaml:"radius"`

	// Movement
	MoveSpeed    float64 `yaml:"moveSpeed"` // units per second
	JumpSpeed    float64 `yaml:"jumpSpeed"`
	Gravity      float64 `yaml:"gravity"`
	MaxFallSpeed float64 `yaml:"maxFallSpeed"`
	TurnSpeed    float64 `yaml:"turnSpeed"` // radians per second
}

// BeamConfig contains the beam hazard shape
type BeamConfig struct {
	Length     float64 `yaml:"length"`
	Width      float64 `yaml:"width"`
	PulseScale float64 `yaml:"pulseScale"` // visual only
	PulseTime  float32 `yaml:"pulseTime"`  // seconds per pulse half-cycle
}

// OverlayConfig contains the health gauge layout
type OverlayConfig struct {
	OffsetX   float64 `yaml:"offsetX"`
	OffsetY   float64 `yaml:"offsetY"`
	BarWidth  float64 `yaml:"barWidth"`
	BarHeight float64 `yaml:"barHeight"`
}

// ArenaConfig contains scene-load placement rules
type ArenaConfig struct {
	File         string  `yaml:"file"`
	SafeDistance float64 `yaml:"safeDistance"` // floor must be this close below
	Fallback     Vec3    `yaml:"fallback"`
}

// NetworkConfig contains client session settings
type NetworkConfig struct {
	ServerAddress string `yaml:"serverAddress"`
	// SendInterval is the number of game ticks between owner uploads.
	SendInterval int `yaml:"sendInterval"`
}

// CameraConfig contains the follow camera settings
type CameraConfig struct {
	FovY            float64 `yaml:"fovY"` // radians
	Near            float64 `yaml:"near"`
	Offset          Vec3    `yaml:"offset"` // eye position relative to the followed avatar
	LookHeight      float64 `yaml:"lookHeight"`
	FollowSmoothing float64 `yaml:"followSmoothing"`
}

// Global configuration instances
var C *Config
var Avatar AvatarConfig
var Beam BeamConfig
var Overlay OverlayConfig
var Arena ArenaConfig
var Network NetworkConfig
var Camera CameraConfig

// Shared RGBA color constants
var (
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	LightRed    = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	BrightGreen = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	LightGreen  = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	Orange      = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	LightBlue   = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	DarkBlue    = color.RGBA{R: 60, G: 100, B: 160, A: 255}
	Floor       = color.RGBA{R: 70, G: 80, B: 90, A: 255}
	BarBack     = color.RGBA{R: 0, G: 0, B: 0, A: 160}
)

// AvatarColors cycles through remote avatars.
var AvatarColors = []color.RGBA{
	{R: 230, G: 90, B: 90, A: 255},
	{R: 90, G: 150, B: 230, A: 255},
	{R: 230, G: 200, B: 80, A: 255},
	{R: 170, G: 100, B: 220, A: 255},
}

func init() {
	C = &Config{
		Width:  640,
		Height: 360,
	}

	Avatar = AvatarConfig{
		StartHealth:   1.0,
		ContactDamage: 0.1,
		DamageRate:    0.1,

		Height: 2.0,
		Radius: 0.5,

		MoveSpeed:    6.0,
		JumpSpeed:    10.0,
		Gravity:      20.0,
		MaxFallSpeed: 30.0,
		TurnSpeed:    3.0,
	}

	Beam = BeamConfig{
		Length:     8.0,
		Width:      0.6,
		PulseScale: 1.4,
		PulseTime:  0.25,
	}

	Overlay = OverlayConfig{
		OffsetX:   0,
		OffsetY:   -30,
		BarWidth:  48,
		BarHeight: 6,
	}

	Arena = ArenaConfig{
		File:         "arena.tmx",
		SafeDistance: 5.0,
		Fallback:     Vec3{X: 0, Y: 5, Z: 0},
	}

	Network = NetworkConfig{
		ServerAddress: "localhost:7373",
		SendInterval:  3, // 20 uploads/s at 60 TPS
	}

	Camera = CameraConfig{
		FovY:            1.0,
		Near:            0.1,
		Offset:          Vec3{X: 0, Y: 6, Z: -10},
		LookHeight:      1.0,
		FollowSmoothing: 0.1,
	}
}

// fileConfig is the layout of a YAML override file. Sections left out of
// the file keep their defaults, as do fields left out of a section.
type fileConfig struct {
	Window  *Config        `yaml:"window"`
	Avatar  *AvatarConfig  `yaml:"avatar"`
	Beam    *BeamConfig    `yaml:"beam"`
	Overlay *OverlayConfig `yaml:"overlay"`
	Arena   *ArenaConfig   `yaml:"arena"`
	Network *NetworkConfig `yaml:"network"`
	Camera  *CameraConfig  `yaml:"camera"`
}

// Load overrides the defaults with the YAML file at path.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return Apply(data)
}

// Apply overrides the defaults with a YAML document. On error nothing is
// changed.
func Apply(data []byte) error {
	// Decode into copies so a bad file leaves the live values alone.
	window, avatar, beam, overlay := *C, Avatar, Beam, Overlay
	arena, network, camera := Arena, Network, Camera
	fc := fileConfig{
		Window:  &window,
		Avatar:  &avatar,
		Beam:    &beam,
		Overlay: &overlay,
		Arena:   &arena,
		Network: &network,
		Camera:  &camera,
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if window.Width <= 0 || window.Height <= 0 {
		return fmt.Errorf("parse config: invalid window size %dx%d", window.Width, window.Height)
	}

	*C = window
	Avatar, Beam, Overlay = avatar, beam, overlay
	Arena, Network, Camera = arena, network, camera
	return nil
}
