package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"reelvault/internal/catalog"
	"reelvault/internal/fetch"
	"reelvault/internal/fileutil"
	"reelvault/internal/ledger"
	"reelvault/internal/logging"
	"reelvault/internal/remotestore"
	"reelvault/internal/sidecar"
	"reelvault/internal/textutil"
)

// State is an observable phase of episode processing.
type State string

const (
	StateSkipped           State = "skipped"
	StateDownloading       State = "downloading"
	StateDownloadFailed    State = "download_failed"
	StateStoring           State = "storing"
	StateStoreFailed       State = "store_failed"
	StateAttachingSidecars State = "attaching_sidecars"
	StateCompleted         State = "completed"
)

// Result describes the terminal outcome of one episode.
type Result struct {
	State     State
	Reference string
	Sidecars  int
	Err       error
}

// Completed reports whether the episode reached the sole terminal success
// state.
func (r Result) Completed() bool {
	return r.State == StateCompleted
}

// Pipeline drives a single episode through claim, download, store, sidecar
// attachment, and completion marking.
type Pipeline struct {
	ledger      *ledger.Ledger
	fetcher     *fetch.Fetcher
	store       *remotestore.Adapter
	sidecars    *sidecar.Attacher
	downloadDir string
	logger      *slog.Logger
}

// New assembles the per-episode pipeline.
func New(
	l *ledger.Ledger,
	fetcher *fetch.Fetcher,
	store *remotestore.Adapter,
	sidecars *sidecar.Attacher,
	downloadDir string,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		ledger:      l,
		fetcher:     fetcher,
		store:       store,
		sidecars:    sidecars,
		downloadDir: downloadDir,
		logger:      logging.WithComponent(logger, "pipeline"),
	}
}

// LocalPath returns the scratch location for an episode's artifact. The
// path derives from (series, index), so concurrent pipeline instances never
// target the same file.
func (p *Pipeline) LocalPath(episode catalog.Episode) string {
	slug := textutil.SanitizeName(episode.Series)
	return filepath.Join(p.downloadDir, slug, episodeFilename(slug, episode.Index))
}

func remoteKey(episode catalog.Episode) string {
	slug := textutil.SanitizeName(episode.Series)
	return fmt.Sprintf("series/%s/%s", slug, episodeFilename(slug, episode.Index))
}

func episodeFilename(slug string, index int) string {
	return fmt.Sprintf("%s_Ep_%d.mp4", slug, index)
}

// Process runs the state machine for one episode. Failures leave the
// ledger claim in processing state so a later run can reclaim the job after
// the staleness threshold.
func (p *Pipeline) Process(ctx context.Context, episode catalog.Episode) Result {
	job := ledger.JobKey{Series: episode.Series, Episode: episode.Index}
	logger := p.logger.With(
		logging.String("series", episode.Series),
		logging.Int("episode", episode.Index),
	)

	if !p.ledger.TryClaim(ctx, job) {
		logger.Info("skipping episode, already processed or claimed elsewhere")
		return Result{State: StateSkipped}
	}

	localPath := p.LocalPath(episode)

	logger.Info("downloading episode", logging.String("url", episode.SourceURL))
	if err := p.fetcher.Fetch(ctx, episode.SourceURL, localPath); err != nil {
		// The processing claim stays behind as a retry-later signal.
		logger.Error("episode download failed", logging.Error(err))
		return Result{State: StateDownloadFailed, Err: err}
	}

	logger.Info("storing episode artifact")
	reference, err := p.store.Upload(ctx, localPath, remoteKey(episode))
	if err != nil {
		// Strict-remote failure: keep the local artifact, leave the claim.
		logger.Error("episode store failed", logging.Error(err))
		return Result{State: StateStoreFailed, Err: err}
	}

	if err := fileutil.RemoveIfExists(localPath); err != nil {
		logger.Warn("failed to delete local artifact", logging.Error(err))
	}

	logger.Info("attaching sidecars")
	sidecars := p.sidecars.FindAndAttach(ctx, episode.Series, episode.Index)

	if err := p.ledger.MarkComplete(ctx, job); err != nil {
		// Non-fatal: the episode is still locally done.
		logger.Warn("failed to persist completion marker", logging.Error(err))
	}

	logger.Info("episode completed",
		logging.String("reference", reference),
		logging.Int("sidecars", sidecars),
	)
	return Result{State: StateCompleted, Reference: reference, Sidecars: sidecars}
}
