package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"reelvault/internal/config"
	"reelvault/internal/ledger"
)

func newLedgerCommand(configFlag *string) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Job ledger inspection",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(configFlag))

	return ledgerCmd
}

func newLedgerListCommand(configFlag *string) *cobra.Command {
	var seriesFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(*configFlag)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return fmt.Errorf("ledger is disabled in %s", path)
			}

			backend, err := ledger.OpenSQLite(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer func() { _ = backend.Close() }()

			prefix := cfg.Ledger.Prefix
			if seriesFilter != "" {
				prefix = prefix + "/" + seriesFilter
			}
			entries, err := backend.List(cmd.Context(), prefix)
			if err != nil {
				return fmt.Errorf("list ledger entries: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No ledger entries found")
				return nil
			}

			keys := make([]string, 0, len(entries))
			for key := range entries {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, key := range keys {
				var record ledger.Record
				if err := json.Unmarshal(entries[key], &record); err != nil {
					rows = append(rows, []string{key, "unreadable", "", "", ""})
					continue
				}
				rows = append(rows, []string{
					key,
					string(record.Status),
					record.Owner,
					formatEpoch(record.StartTime),
					formatEpoch(record.CompletedTime),
				})
			}

			headers := []string{"Key", "Status", "Owner", "Started", "Completed"}
			fmt.Fprintln(out, renderTable(headers, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&seriesFilter, "series", "", "Only list entries for this series")
	return cmd
}

func formatEpoch(seconds int64) string {
	if seconds == 0 {
		return "-"
	}
	return time.Unix(seconds, 0).UTC().Format("2006-01-02 15:04:05")
}
