package main

import (
	"os"

	"github.com/spf13/cobra"

	"reelvault/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "reelvault",
		Short:         "Batch downloader that archives series episodes to durable storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(cmd, configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand(&configFlag))
	rootCmd.AddCommand(newLedgerCommand(&configFlag))

	return rootCmd
}

// resolveConfigPath picks the config location: flag, then environment, then
// the default path.
func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("REELVAULT_CONFIG"); env != "" {
		return env, nil
	}
	return config.DefaultConfigPath()
}
