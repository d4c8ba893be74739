// Package config defines the immutable configuration of the drawing spawner.
//
// A [Config] is a plain value. It is built from [Default], optionally overlaid
// with a TOML file by [Load], validated, and then handed to the spawner, which
// keeps its own copy. Nothing reads configuration from package-level state.
//
// # File Format
//
//	container_id = "background-container"
//	max_elements = 20
//	min_size = 50
//	max_size = 500
//	min_duration = 4.0
//	max_duration = 12.0
//	colors = ["#fbbf24", "#d97706", "#f59e0b", "#eab308", "#8b5cf6"]
//	# shapes = ["M 50 20 L 150 20 L 150 80 L 50 80 Z"]
//
// Keys that are absent keep their default. Unknown keys are rejected.
package config

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	berrors "github.com/matzehuels/backdrop/pkg/errors"
	"github.com/matzehuels/backdrop/pkg/shapes"
)

const (
	// DefaultContainerID is the well-known identifier of the rendering container.
	DefaultContainerID = "background-container"

	// SizeBasis normalizes the configured size range into a scale multiplier.
	SizeBasis = 100.0

	// MaxDurationSeconds bounds max_duration to one day.
	MaxDurationSeconds = 24 * 60 * 60

	appName  = "backdrop"
	fileName = "config.toml"
)

// Config holds the spawner settings.
type Config struct {
	ContainerID string   `toml:"container_id"`
	MaxElements int      `toml:"max_elements"`
	MinSize     float64  `toml:"min_size"`
	MaxSize     float64  `toml:"max_size"`
	MinDuration float64  `toml:"min_duration"` // seconds
	MaxDuration float64  `toml:"max_duration"` // seconds
	Colors      []string `toml:"colors"`
	Shapes      []string `toml:"shapes,omitempty"` // overrides the built-in library when set
}

// Default returns the stock configuration: amber/purple palette, up to 20
// drawings, sizes 0.5×–5× and 4–12 second animations.
func Default() Config {
	return Config{
		ContainerID: DefaultContainerID,
		MaxElements: 20,
		MinSize:     50,
		MaxSize:     500,
		MinDuration: 4,
		MaxDuration: 12,
		Colors:      []string{"#fbbf24", "#d97706", "#f59e0b", "#eab308", "#8b5cf6"},
	}
}

// Load reads a TOML file on top of [Default] and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, berrors.Wrap(berrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, berrors.New(berrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOptional loads path if it exists and falls back to [Default] otherwise.
// An empty path resolves to [Path].
func LoadOptional(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Path returns the default config file location (~/.config/backdrop/config.toml),
// honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks ranges, the palette and the shape override.
func (c Config) Validate() error {
	if err := berrors.ValidateElementID(c.ContainerID); err != nil {
		return err
	}
	if c.MaxElements < 1 {
		return berrors.New(berrors.ErrCodeInvalidConfig, "max_elements must be at least 1, got %d", c.MaxElements)
	}
	if !finite(c.MinSize, c.MaxSize) || c.MinSize <= 0 || c.MaxSize < c.MinSize {
		return berrors.New(berrors.ErrCodeInvalidConfig, "size range must satisfy 0 < min_size <= max_size, got [%g, %g]", c.MinSize, c.MaxSize)
	}
	if !finite(c.MinDuration, c.MaxDuration) || c.MinDuration <= 0 || c.MaxDuration < c.MinDuration {
		return berrors.New(berrors.ErrCodeInvalidConfig, "duration range must satisfy 0 < min_duration <= max_duration, got [%g, %g]", c.MinDuration, c.MaxDuration)
	}
	if c.MaxDuration > MaxDurationSeconds {
		return berrors.New(berrors.ErrCodeInvalidConfig, "max_duration must be at most %g seconds, got %g", float64(MaxDurationSeconds), c.MaxDuration)
	}
	if len(c.Colors) == 0 {
		return berrors.New(berrors.ErrCodeInvalidConfig, "colors cannot be empty")
	}
	for _, col := range c.Colors {
		if _, err := colorful.Hex(col); err != nil {
			return berrors.Wrap(berrors.ErrCodeInvalidColor, err, "color %q must be #rgb or #rrggbb", col)
		}
	}
	if len(c.Shapes) > 0 {
		if err := shapes.FromPaths(c.Shapes).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy, so callers can hold a config without sharing slices.
func (c Config) Clone() Config {
	c.Colors = slices.Clone(c.Colors)
	c.Shapes = slices.Clone(c.Shapes)
	return c
}

// Library returns the shape override, or the built-in library if none is set.
func (c Config) Library() shapes.Library {
	if len(c.Shapes) > 0 {
		return shapes.FromPaths(c.Shapes)
	}
	return shapes.Default()
}

// Palette parses the configured colors. Invalid entries are skipped;
// call [Config.Validate] first to reject them instead.
func (c Config) Palette() []colorful.Color {
	out := make([]colorful.Color, 0, len(c.Colors))
	for _, col := range c.Colors {
		if parsed, err := colorful.Hex(col); err == nil {
			out = append(out, parsed)
		}
	}
	return out
}

// DurationRange returns the animation duration bounds.
func (c Config) DurationRange() (time.Duration, time.Duration) {
	return seconds(c.MinDuration), seconds(c.MaxDuration)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
