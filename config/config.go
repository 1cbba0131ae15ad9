// Package config loads furnish settings from a JSON or YAML file and
// FURNISH_* environment variables.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"

	"github.com/phanxgames/furnish"
)

// EnvPrefix is prepended to every environment override, e.g.
// FURNISH_ROOM_WIDTH or FURNISH_HTTP_LISTEN.
const EnvPrefix = "FURNISH"

// File is the on-disk configuration.
type File struct {
	Room struct {
		Width  float64 `mapstructure:"width"`
		Length float64 `mapstructure:"length"`
		Height float64 `mapstructure:"height"`
	} `mapstructure:"room"`
	SizeFactors map[string]float64           `mapstructure:"size_factors"`
	Footprints  map[string]furnish.Footprint `mapstructure:"footprints"`
	Interaction struct {
		RotationDamping     float64       `mapstructure:"rotation_damping"`
		ClickThreshold      time.Duration `mapstructure:"click_threshold"`
		DragDeadZone        float64       `mapstructure:"drag_dead_zone"`
		StoreCommitInterval time.Duration `mapstructure:"store_commit_interval"`
		KeepInBounds        bool          `mapstructure:"keep_in_bounds"`
		DuplicateOffset     []float64     `mapstructure:"duplicate_offset"`
		SpawnExtent         float64       `mapstructure:"spawn_extent"`
		FloorY              float64       `mapstructure:"floor_y"`
		BadgeTweenDuration  float64       `mapstructure:"badge_tween_duration"`
	} `mapstructure:"interaction"`
	Assets struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"assets"`
	HTTP struct {
		ServerName string `mapstructure:"server_name"`
		Listen     string `mapstructure:"listen"`
		// TickRate is the number of engine updates per second.
		TickRate int `mapstructure:"tick_rate"`
	} `mapstructure:"http"`
	DefaultSeed bool `mapstructure:"default_seed"`
	Debug       bool `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	def := furnish.DefaultConfig()
	v.SetDefault("room.width", def.Room.Width)
	v.SetDefault("room.length", def.Room.Length)
	v.SetDefault("room.height", def.Room.Height)
	v.SetDefault("interaction.rotation_damping", def.RotationDamping)
	v.SetDefault("interaction.click_threshold", def.ClickThreshold)
	v.SetDefault("interaction.drag_dead_zone", def.DragDeadZone)
	v.SetDefault("interaction.store_commit_interval", def.StoreCommitInterval)
	v.SetDefault("interaction.keep_in_bounds", def.KeepInBounds)
	v.SetDefault("interaction.duplicate_offset", []float64{def.DuplicateOffset.X(), def.DuplicateOffset.Y(), def.DuplicateOffset.Z()})
	v.SetDefault("interaction.spawn_extent", def.SpawnExtent)
	v.SetDefault("interaction.floor_y", def.FloorY)
	v.SetDefault("interaction.badge_tween_duration", float64(def.BadgeTweenDuration))
	v.SetDefault("assets.dir", "assets")
	v.SetDefault("http.server_name", "furnishd")
	v.SetDefault("http.listen", ":8080")
	v.SetDefault("http.tick_rate", 60)
	v.SetDefault("default_seed", true)
	v.SetDefault("debug", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, applies environment overrides and returns the result.
// An empty path loads defaults and environment only.
func Load(path string) (*File, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

// Read parses configuration of the given type ("json", "yaml") from r.
func Read(r io.Reader, configType string) (*File, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*File, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the values the engine cannot repair with defaults.
func (f *File) Validate() error {
	room := furnish.RoomDimensions{Width: f.Room.Width, Length: f.Room.Length, Height: f.Room.Height}
	if err := room.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for name, factor := range f.SizeFactors {
		if _, err := furnish.ParseSize(name); err != nil {
			return fmt.Errorf("config: size_factors: %w", err)
		}
		if factor <= 0 {
			return fmt.Errorf("config: size_factors.%s must be positive, got %v", name, factor)
		}
	}
	for typ, fp := range f.Footprints {
		if fp.Width <= 0 || fp.Depth <= 0 {
			return fmt.Errorf("config: footprints.%s must have a positive width and depth", typ)
		}
	}
	if n := len(f.Interaction.DuplicateOffset); n != 0 && n != 3 {
		return fmt.Errorf("config: interaction.duplicate_offset needs 3 components, got %d", n)
	}
	return nil
}

// EngineConfig converts the file into an engine configuration. Values not
// present in the file keep their DefaultConfig value.
func (f *File) EngineConfig() furnish.Config {
	cfg := furnish.DefaultConfig()
	cfg.Room = furnish.RoomDimensions{Width: f.Room.Width, Length: f.Room.Length, Height: f.Room.Height}
	for name, factor := range f.SizeFactors {
		s, _ := furnish.ParseSize(name)
		cfg.SizeFactors[s] = factor
	}
	for typ, fp := range f.Footprints {
		cfg.Footprints[strings.ToLower(typ)] = fp
	}
	in := f.Interaction
	cfg.RotationDamping = in.RotationDamping
	cfg.ClickThreshold = in.ClickThreshold
	cfg.DragDeadZone = in.DragDeadZone
	cfg.StoreCommitInterval = in.StoreCommitInterval
	cfg.KeepInBounds = in.KeepInBounds
	if len(in.DuplicateOffset) == 3 {
		cfg.DuplicateOffset = mgl64.Vec3{in.DuplicateOffset[0], in.DuplicateOffset[1], in.DuplicateOffset[2]}
	}
	cfg.SpawnExtent = in.SpawnExtent
	cfg.FloorY = in.FloorY
	cfg.BadgeTweenDuration = float32(in.BadgeTweenDuration)
	if !f.DefaultSeed {
		cfg.Seed = nil
	}
	cfg.Debug = f.Debug
	return cfg
}
