package testsupport

import (
	"path/filepath"
	"testing"

	"reelvault/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.TranscriptDir = filepath.Join(base, "transcripts")
	cfg.Paths.FallbackDir = filepath.Join(base, "fallback")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Fetch.BaseDelaySeconds = 0
	cfg.Workflow.EpisodeDelaySeconds = 0
	cfg.Ledger.WorkerID = "worker-test"

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return &cfg
}
