// Package config loads, validates and saves the viewer configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-pano/internal/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides. Nested keys are separated by a
// double underscore: PANORAMA_VIEWER__SENSITIVITY sets viewer.sensitivity.
const EnvPrefix = "PANORAMA_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PANORAMA_*). A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// Overlay environment variables: PANORAMA_LOG__LEVEL -> log.level, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Lists from the file replace the defaults rather than merging element-wise.
	if k.Exists("tour.images") {
		cfg.Tour.Images = nil
	}
	if k.Exists("tour.markers") {
		cfg.Tour.Markers = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps PANORAMA_WINDOW__WIDTH to window.width.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validActions is the set of recognized marker actions.
var validActions = map[string]bool{
	"advance": true,
	"info":    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if len(c.Tour.Images) == 0 {
		return fmt.Errorf("tour.images must list at least one image")
	}
	for i, img := range c.Tour.Images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("tour.images[%d] is empty", i)
		}
	}
	if c.Tour.StartIndex < 0 || c.Tour.StartIndex >= len(c.Tour.Images) {
		return fmt.Errorf("tour.start_index %d out of range [0, %d)", c.Tour.StartIndex, len(c.Tour.Images))
	}
	if len(c.Tour.Markers) > 0 && c.Tour.Icon == "" {
		return fmt.Errorf("tour.icon is required when markers are configured")
	}
	for i, m := range c.Tour.Markers {
		if !validActions[m.Action] {
			return fmt.Errorf("invalid tour.markers[%d].action %q: must be one of advance, info", i, m.Action)
		}
		if m.Action == "info" && strings.TrimSpace(m.Text) == "" {
			return fmt.Errorf("tour.markers[%d].text is required for info markers", i)
		}
		if m.Scale[0] < 0 || m.Scale[1] < 0 {
			return fmt.Errorf("tour.markers[%d].scale must be non-negative", i)
		}
	}
	if c.Tour.SphereRadius <= 0 {
		return fmt.Errorf("tour.sphere_radius must be positive")
	}
	if c.Tour.ShowEndCaps && (c.Tour.EndCapRadius <= 0 || c.Tour.EndCapRadius >= c.Tour.SphereRadius) {
		return fmt.Errorf("tour.end_cap_radius must be in (0, sphere_radius)")
	}

	if c.Viewer.FovDegrees <= 0 || c.Viewer.FovDegrees >= 180 {
		return fmt.Errorf("viewer.fov_degrees must be in (0, 180)")
	}
	if c.Viewer.Near <= 0 {
		return fmt.Errorf("viewer.near must be positive")
	}
	if c.Viewer.Far <= c.Viewer.Near {
		return fmt.Errorf("viewer.far must be greater than viewer.near")
	}
	if c.Tour.SphereRadius >= c.Viewer.Far {
		return fmt.Errorf("tour.sphere_radius must be less than viewer.far")
	}
	if c.Viewer.DragThreshold <= 0 {
		return fmt.Errorf("viewer.drag_threshold must be positive")
	}
	if c.Viewer.Sensitivity <= 0 {
		return fmt.Errorf("viewer.sensitivity must be positive")
	}
	if c.Viewer.Exposure <= 0 {
		return fmt.Errorf("viewer.exposure must be positive")
	}
	if c.Viewer.OverlayScale < 1 {
		return fmt.Errorf("viewer.overlay_scale must be at least 1")
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window.width and window.height must be positive")
	}
	if c.Window.MinWidth <= 0 || c.Window.MinHeight <= 0 {
		return fmt.Errorf("window.min_width and window.min_height must be positive")
	}
	if c.Window.MaxWidth < c.Window.MinWidth || c.Window.MaxHeight < c.Window.MinHeight {
		return fmt.Errorf("window.max_width and window.max_height must not be below the minimum")
	}
	if c.Window.Width < c.Window.MinWidth || c.Window.Width > c.Window.MaxWidth ||
		c.Window.Height < c.Window.MinHeight || c.Window.Height > c.Window.MaxHeight {
		return fmt.Errorf("window size %dx%d is outside the %dx%d to %dx%d limits",
			c.Window.Width, c.Window.Height, c.Window.MinWidth, c.Window.MinHeight, c.Window.MaxWidth, c.Window.MaxHeight)
	}
	if c.Window.ProfilerInterval < 0 {
		return fmt.Errorf("window.profiler_interval must be non-negative")
	}

	if c.Loader.Workers < 1 {
		return fmt.Errorf("loader.workers must be at least 1")
	}
	if c.Loader.MaxTextureSize < 0 {
		return fmt.Errorf("loader.max_texture_size must be non-negative")
	}
	if c.Loader.CacheSize < 0 {
		return fmt.Errorf("loader.cache_size must be non-negative")
	}

	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log.level %q: must be one of trace, debug, info, warn, error", c.Log.Level)
	}

	return nil
}

// CheckAssets verifies that every image and the marker icon exist on disk.
// All missing files are reported together.
func (c *Config) CheckAssets() error {
	var errs []error
	check := func(field, path string) {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		case info.IsDir():
			errs = append(errs, fmt.Errorf("%s: %s is a directory", field, path))
		}
	}

	for i, img := range c.Tour.Images {
		check(fmt.Sprintf("tour.images[%d]", i), img)
	}
	if len(c.Tour.Markers) > 0 {
		check("tour.icon", c.Tour.Icon)
	}
	return errors.Join(errs...)
}
