package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-pano/internal/config"
	"github.com/spf13/cobra"
	yamlv3 "gopkg.in/yaml.v3"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect configuration files",
	}
	cmd.AddCommand(newConfigInitCommand(a), newConfigShowCommand(a), newConfigPresetsCommand())
	return cmd
}

func newConfigInitCommand(a *app) *cobra.Command {
	var (
		preset string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a preset configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := config.Preset(preset)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s preset to %s\n", preset, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "tour", "preset to write ("+strings.Join(config.PresetNames(), ", ")+")")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolveConfig()
			if err != nil {
				return err
			}
			data, err := yamlv3.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&a.preset, "preset", "", "show a built-in preset instead of the config file")
	return cmd
}

func newConfigPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range config.PresetNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
