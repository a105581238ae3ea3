package config

// Config is the top-level viewer configuration, corresponding to panorama.yml.
type Config struct {
	Tour   TourConfig   `yaml:"tour" koanf:"tour"`
	Viewer ViewerConfig `yaml:"viewer" koanf:"viewer"`
	Window WindowConfig `yaml:"window" koanf:"window"`
	Loader LoaderConfig `yaml:"loader" koanf:"loader"`
	Log    LogConfig    `yaml:"log" koanf:"log"`
}

// TourConfig describes what is shown: the ordered images, the markers placed in them and the
// scene geometry.
type TourConfig struct {
	Images       []string       `yaml:"images" koanf:"images"`
	StartIndex   int            `yaml:"start_index" koanf:"start_index"`
	Icon         string         `yaml:"icon" koanf:"icon"`
	Markers      []MarkerConfig `yaml:"markers" koanf:"markers"`
	ShowEndCaps  bool           `yaml:"show_end_caps" koanf:"show_end_caps"`
	EndCapRadius float32        `yaml:"end_cap_radius" koanf:"end_cap_radius"`
	SphereRadius float32        `yaml:"sphere_radius" koanf:"sphere_radius"`
}

// MarkerConfig places one clickable billboard.
type MarkerConfig struct {
	Position [3]float32 `yaml:"position" koanf:"position"`
	// Scale is the billboard width and height; zero means the default 50x50.
	Scale  [2]float32 `yaml:"scale,omitempty" koanf:"scale"`
	Action string     `yaml:"action" koanf:"action"`
	Text   string     `yaml:"text,omitempty" koanf:"text"`
}

// ViewerConfig holds camera and interaction settings.
type ViewerConfig struct {
	FovDegrees    float32 `yaml:"fov_degrees" koanf:"fov_degrees"`
	Near          float32 `yaml:"near" koanf:"near"`
	Far           float32 `yaml:"far" koanf:"far"`
	DragThreshold float64 `yaml:"drag_threshold" koanf:"drag_threshold"`
	Sensitivity   float64 `yaml:"sensitivity" koanf:"sensitivity"`
	InitialYaw    float64 `yaml:"initial_yaw" koanf:"initial_yaw"`
	InitialPitch  float64 `yaml:"initial_pitch" koanf:"initial_pitch"`
	Exposure      float32 `yaml:"exposure" koanf:"exposure"`
	OverlayScale  int     `yaml:"overlay_scale" koanf:"overlay_scale"`
}

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title  string `yaml:"title" koanf:"title"`
	Width  int    `yaml:"width" koanf:"width"`
	Height int    `yaml:"height" koanf:"height"`
	// MinWidth, MinHeight, MaxWidth and MaxHeight bound interactive resizing.
	MinWidth  int  `yaml:"min_width" koanf:"min_width"`
	MinHeight int  `yaml:"min_height" koanf:"min_height"`
	MaxWidth  int  `yaml:"max_width" koanf:"max_width"`
	MaxHeight int  `yaml:"max_height" koanf:"max_height"`
	VSync     bool `yaml:"vsync" koanf:"vsync"`
	// ProfilerInterval is how often frame statistics are logged, in seconds; 0 disables.
	ProfilerInterval float64 `yaml:"profiler_interval" koanf:"profiler_interval"`
}

// LoaderConfig holds background texture loading settings.
type LoaderConfig struct {
	Workers        int `yaml:"workers" koanf:"workers"`
	MaxTextureSize int `yaml:"max_texture_size" koanf:"max_texture_size"`
	CacheSize      int `yaml:"cache_size" koanf:"cache_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file,omitempty" koanf:"file"`
}
