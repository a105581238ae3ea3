package config

import (
	"fmt"
	"sort"
)

// DefaultImages is the four-image tour loaded when no configuration file exists.
var DefaultImages = []string{
	"public/assets/test.jpg",
	"public/assets/milkway.jpg",
	"public/assets/vlw-mw-potw.jpg",
	"public/assets/armazones-sunset360.jpg",
}

// DefaultConfig returns a Config with sensible defaults: a four-image tour advanced by a single
// icon placed below and behind the initial view.
func DefaultConfig() *Config {
	return &Config{
		Tour: TourConfig{
			Images: append([]string(nil), DefaultImages...),
			Icon:   "public/assets/info-icon.png",
			Markers: []MarkerConfig{
				{Position: [3]float32{0, -50, 400}, Scale: [2]float32{50, 50}, Action: "advance"},
			},
			ShowEndCaps:  false,
			EndCapRadius: 100,
			SphereRadius: 500,
		},
		Viewer: ViewerConfig{
			FovDegrees:    75,
			Near:          0.1,
			Far:           1000,
			DragThreshold: 5,
			Sensitivity:   0.005,
			Exposure:      0.6,
			OverlayScale:  2,
		},
		Window: WindowConfig{
			Title:            "Panorama",
			Width:            1280,
			Height:           720,
			MinWidth:         320,
			MinHeight:        200,
			MaxWidth:         3840,
			MaxHeight:        2160,
			VSync:            true,
			ProfilerInterval: 5,
		},
		Loader: LoaderConfig{
			Workers:        2,
			MaxTextureSize: 8192,
			CacheSize:      4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// presets maps a preset name to a function building its configuration.
var presets = map[string]func() *Config{
	"tour": DefaultConfig,
	"info": infoPreset,
}

// infoPreset is a single panorama with two info markers and black end caps over the poles.
func infoPreset() *Config {
	cfg := DefaultConfig()
	cfg.Tour.Images = []string{"public/assets/teste.jpg"}
	cfg.Tour.Markers = []MarkerConfig{
		{Position: [3]float32{100, 50, -200}, Scale: [2]float32{50, 50}, Action: "info", Text: "Art Piece 1: Description goes here."},
		{Position: [3]float32{-150, 20, 300}, Scale: [2]float32{50, 50}, Action: "info", Text: "Integrantes do grupo: Arthur, Gustavo, Caio, Danilo, Kaua"},
	}
	cfg.Tour.ShowEndCaps = true
	return cfg
}

// Preset returns the named configuration preset.
func Preset(name string) (*Config, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q: must be one of %v", name, PresetNames())
	}
	return build(), nil
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
