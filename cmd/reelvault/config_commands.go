package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"reelvault/internal/config"
)

func newConfigCommand(configFlag *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(configFlag))
	configCmd.AddCommand(newConfigShowCommand(configFlag))

	return configCmd
}

func newConfigInitCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(*configFlag)
			if err != nil {
				return err
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", path)
			fmt.Fprintln(out, "Edit the series list before running reelvault.")
			return nil
		},
	}
}

func newConfigShowCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(*configFlag)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			rendered, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprint(out, string(rendered))
			return nil
		},
	}
}
