package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelvault/internal/catalog"
	"reelvault/internal/config"
	"reelvault/internal/fetch"
	"reelvault/internal/ledger"
	"reelvault/internal/logging"
	"reelvault/internal/pipeline"
	"reelvault/internal/remotestore"
	"reelvault/internal/runner"
	"reelvault/internal/sidecar"
)

func newRunCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process every configured series to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(cmd, *configFlag)
		},
	}
}

func runCampaign(cmd *cobra.Command, configFlag string) error {
	path, err := resolveConfigPath(configFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	if cfg.Ledger.WorkerID == "" {
		cfg.Ledger.WorkerID = os.Getenv("REELVAULT_WORKER_ID")
	}

	var backend ledger.Backend
	if cfg.Ledger.Enabled {
		sqlite, openErr := ledger.OpenSQLite(cfg.Paths.LogDir)
		if openErr != nil {
			// Degrade to session-local deduplication rather than refuse to run.
			logger.Warn("ledger backend unavailable, coordination is session-local only",
				logging.Error(openErr),
			)
		} else {
			defer func() { _ = sqlite.Close() }()
			backend = sqlite
		}
	}

	l := ledger.New(backend, ledger.Options{
		Prefix:     cfg.Ledger.Prefix,
		StaleAfter: time.Duration(cfg.Ledger.StaleAfterSeconds) * time.Second,
		WorkerID:   cfg.Ledger.WorkerID,
	}, logger)
	logger.Info("worker starting", logging.String("worker_id", l.WorkerID()))

	var objectStore remotestore.ObjectStore
	if cfg.Store.RemoteRoot != "" {
		objectStore = remotestore.NewFSStore(cfg.Store.RemoteRoot)
	}
	store := remotestore.NewAdapter(objectStore, cfg.Store, cfg.Paths.FallbackDir, logger)
	fetcher := fetch.New(fetch.NewYtDlpExtractor(), cfg.Fetch, logger)
	attacher := sidecar.New(cfg.Paths.TranscriptDir, cfg.Sidecar.Languages, store, logger)
	pipe := pipeline.New(l, fetcher, store, attacher, cfg.Paths.DownloadDir, logger)

	enumerator := catalog.NewEnumerator(catalog.NewYtDlpResolver(), logger)
	seriesRunner := runner.NewSeriesRunner(enumerator, pipe, cfg.Workflow, logger)
	campaign := runner.NewCampaignRunner(
		cfg.Series,
		seriesRunner,
		filepath.Join(cfg.Paths.LogDir, "reelvault.lock"),
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := campaign.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderCampaignSummary(result))
	return nil
}
