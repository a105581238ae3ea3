package cli

import (
	"github.com/Carmen-Shannon/oxy-pano/engine"
	"github.com/Carmen-Shannon/oxy-pano/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func addViewFlags(cmd *cobra.Command, a *app) {
	cmd.Flags().StringVar(&a.preset, "preset", "", "use a built-in preset instead of the config file")
	cmd.Flags().IntVar(&a.start, "start", -1, "tour index to start at, overrides the config")
	cmd.Flags().BoolVar(&a.profile, "profile", false, "log frame rate and memory statistics")
}

func newViewCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the panorama viewer",
		Args:  cobra.NoArgs,
		RunE:  a.runView,
	}
	addViewFlags(cmd, a)
	return cmd
}

func (a *app) runView(cmd *cobra.Command, _ []string) error {
	cfg, err := a.checkedConfig()
	if err != nil {
		return err
	}
	logger, closer, err := a.newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info().
		Str("version", Version).
		Strs("images", cfg.Tour.Images).
		Int("markers", len(cfg.Tour.Markers)).
		Msg("starting viewer")
	if err := a.run(cfg, logger, a.profile); err != nil {
		logger.Error().Err(err).Msg("viewer failed")
		return err
	}
	return nil
}

// RunEngine opens a window for cfg and blocks until it is closed.
//
// Parameters:
//   - cfg: a validated configuration
//   - logger: the application logger
//   - profile: whether to log frame statistics
//
// Returns:
//   - error: error if the viewer could not start or shut down cleanly
func RunEngine(cfg *config.Config, logger zerolog.Logger, profile bool) error {
	e, err := engine.NewEngine(cfg,
		engine.WithLogger(logger),
		engine.WithProfiling(profile),
	)
	if err != nil {
		return err
	}
	return e.Run()
}
