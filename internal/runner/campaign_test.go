package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"reelvault/internal/catalog"
	"reelvault/internal/config"
	"reelvault/internal/fetch"
	"reelvault/internal/ledger"
	"reelvault/internal/logging"
	"reelvault/internal/pipeline"
	"reelvault/internal/remotestore"
	"reelvault/internal/runner"
	"reelvault/internal/sidecar"
	"reelvault/internal/testsupport"
)

type selectiveResolver struct {
	urls map[string][]string
}

func (r *selectiveResolver) Resolve(_ context.Context, playlistURL string) ([]string, error) {
	entries, ok := r.urls[playlistURL]
	if !ok {
		return nil, errors.New("playlist unavailable")
	}
	return entries, nil
}

func TestCampaignContinuesPastFailingSeries(t *testing.T) {
	resolver := &selectiveResolver{urls: map[string][]string{
		"https://good": {"https://a", "https://b"},
	}}
	processor := &fakeProcessor{}
	series := []config.Series{
		{Name: "broken", PlaylistURL: "https://broken"},
		{Name: "good", PlaylistURL: "https://good"},
	}
	sr := newSeriesRunner(resolver, processor, config.Workflow{Workers: 2})
	cr := runner.NewCampaignRunner(series, sr, filepath.Join(t.TempDir(), "worker.lock"), logging.NewNop())

	result, err := cr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Series) != 2 {
		t.Fatalf("expected 2 series results, got %d", len(result.Series))
	}
	if result.Series[0].Total != 0 {
		t.Fatalf("broken series should be empty: %#v", result.Series[0])
	}
	if result.Series[1].Succeeded != 2 {
		t.Fatalf("good series should complete: %#v", result.Series[1])
	}
}

func TestCampaignRefusesSecondInstance(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "worker.lock")
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-acquire lock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	sr := newSeriesRunner(&selectiveResolver{}, &fakeProcessor{}, config.Workflow{Workers: 1})
	cr := runner.NewCampaignRunner(nil, sr, lockPath, logging.NewNop())

	if _, err := cr.Run(context.Background()); err == nil {
		t.Fatal("expected lock contention error")
	}
}

// buildStack wires the full pipeline against an in-memory ledger backend
// and a filesystem object store.
func buildStack(t *testing.T, backend ledger.Backend, storeRoot string) (*runner.CampaignRunner, *ledger.Ledger) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()

	l := ledger.New(backend, ledger.Options{
		Prefix:     cfg.Ledger.Prefix,
		StaleAfter: time.Duration(cfg.Ledger.StaleAfterSeconds) * time.Second,
	}, logger)

	extractor := writeMediaExtractor{}
	fetcher := fetch.New(extractor, cfg.Fetch, logger)
	store := remotestore.NewAdapter(remotestore.NewFSStore(storeRoot), cfg.Store, cfg.Paths.FallbackDir, logger)
	attacher := sidecar.New(cfg.Paths.TranscriptDir, cfg.Sidecar.Languages, store, logger)
	p := pipeline.New(l, fetcher, store, attacher, cfg.Paths.DownloadDir, logger)

	resolver := &selectiveResolver{urls: map[string][]string{
		"https://playlist/demo": {"https://v/1", "https://v/2"},
	}}
	sr := runner.NewSeriesRunner(catalog.NewEnumerator(resolver, logger), p, cfg.Workflow, logger)
	series := []config.Series{{Name: "demo", PlaylistURL: "https://playlist/demo"}}
	cr := runner.NewCampaignRunner(series, sr, filepath.Join(cfg.Paths.LogDir, "worker.lock"), logger)
	return cr, l
}

type writeMediaExtractor struct{}

func (writeMediaExtractor) Extract(_ context.Context, _, destPath, _ string) error {
	return os.WriteFile(destPath, []byte("media"), 0o644)
}

func TestCampaignEndToEndWithRepeatRun(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	storeRoot := t.TempDir()
	ctx := context.Background()

	first, firstLedger := buildStack(t, backend, storeRoot)
	result, err := first.Run(ctx)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	succeeded, skipped, failed, total := result.Totals()
	if succeeded != 2 || skipped != 0 || failed != 0 || total != 2 {
		t.Fatalf("unexpected first-run totals: %d/%d/%d/%d", succeeded, skipped, failed, total)
	}
	if firstLedger.Session().Len() != 2 {
		t.Fatalf("expected 2 session entries, got %d", firstLedger.Session().Len())
	}
	for idx := 1; idx <= 2; idx++ {
		record := backend.Record(t, firstLedger.Key(ledger.JobKey{Series: "demo", Episode: idx}))
		if record.Status != ledger.StatusComplete {
			t.Fatalf("episode %d not complete: %#v", idx, record)
		}
	}

	// A fresh worker over the same ledger backend must claim nothing.
	second, secondLedger := buildStack(t, backend, storeRoot)
	repeat, err := second.Run(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	succeeded, skipped, failed, total = repeat.Totals()
	if succeeded != 0 || skipped != 2 || failed != 0 || total != 2 {
		t.Fatalf("unexpected repeat-run totals: %d/%d/%d/%d", succeeded, skipped, failed, total)
	}
	if secondLedger.Session().Len() != 0 {
		t.Fatal("repeat run should complete nothing this session")
	}
}
