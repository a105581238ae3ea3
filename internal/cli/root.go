// Package cli implements the panorama command line.
package cli

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-pano/internal/config"
	"github.com/Carmen-Shannon/oxy-pano/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "panorama.yaml"

// Runner opens the viewer for a resolved configuration and blocks until it closes.
type Runner func(cfg *config.Config, logger zerolog.Logger, profile bool) error

// app holds flag values shared by the commands.
type app struct {
	cfgFile  string
	logLevel string
	logFile  string
	preset   string
	start    int
	profile  bool
	noColor  bool

	run Runner
}

// NewRootCommand builds the command tree. The root command opens the viewer, like "view".
//
// Parameters:
//   - run: opens the viewer, normally RunEngine
//
// Returns:
//   - *cobra.Command: the root command
func NewRootCommand(run Runner) *cobra.Command {
	a := &app{run: run, start: -1}

	root := &cobra.Command{
		Use:   "panorama",
		Short: "Interactive 360° panorama viewer",
		Long: `Panorama shows equirectangular images on the inside of a sphere. Drag to look
around, click a marker to move to the next image or read its description, and press
N to advance or Q to quit.`,
		SilenceUsage: true,
		RunE:         a.runView,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", DefaultConfigPath, "config file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error), overrides the config")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also write logs to this file, overrides the config")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored console logs")
	addViewFlags(root, a)

	root.AddCommand(
		newViewCommand(a),
		newValidateCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line with the real viewer.
//
// Returns:
//   - error: the command error
func Execute() error {
	return NewRootCommand(RunEngine).Execute()
}

// resolveConfig loads the config file, or the named preset when --preset is set, and applies the
// command line overrides.
func (a *app) resolveConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.preset != "" {
		cfg, err = config.Preset(a.preset)
	} else {
		cfg, err = config.Load(a.cfgFile)
	}
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	if a.start >= 0 {
		cfg.Tour.StartIndex = a.start
	}
	return cfg, nil
}

// checkedConfig resolves the config and verifies it can be shown.
func (a *app) checkedConfig() (*config.Config, error) {
	cfg, err := a.resolveConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.CheckAssets(); err != nil {
		return nil, fmt.Errorf("missing assets: %w", err)
	}
	return cfg, nil
}

func (a *app) newLogger(cfg *config.Config, console io.Writer) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
		NoColor: a.noColor,
	})
}
