package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reelvault/internal/catalog"
	"reelvault/internal/config"
	"reelvault/internal/logging"
	"reelvault/internal/pipeline"
)

// Processor runs one episode to a terminal state.
type Processor interface {
	Process(ctx context.Context, episode catalog.Episode) pipeline.Result
}

// SeriesResult aggregates episode outcomes for one series. Succeeded counts
// only episodes that reached completion during this run; episodes denied at
// claim time (already complete or held elsewhere) are counted as Skipped.
type SeriesResult struct {
	Series    string
	Succeeded int
	Skipped   int
	Failed    int
	Total     int
}

// SeriesRunner drives every episode of a series through the pipeline using
// the configured scheduling mode. Sequential mode is the one-worker case of
// the same worker-pool path, with an inter-episode delay to ease external
// rate limiting.
type SeriesRunner struct {
	enumerator   *catalog.Enumerator
	processor    Processor
	workers      int
	episodeDelay time.Duration
	logger       *slog.Logger
}

// NewSeriesRunner builds a runner from the workflow configuration.
func NewSeriesRunner(enumerator *catalog.Enumerator, processor Processor, cfg config.Workflow, logger *slog.Logger) *SeriesRunner {
	workers := cfg.Workers
	delay := time.Duration(0)
	if cfg.Sequential {
		workers = 1
		delay = time.Duration(cfg.EpisodeDelaySeconds) * time.Second
	}
	if workers < 1 {
		workers = 1
	}
	return &SeriesRunner{
		enumerator:   enumerator,
		processor:    processor,
		workers:      workers,
		episodeDelay: delay,
		logger:       logging.WithComponent(logger, "series"),
	}
}

// Run processes all episodes of a series and returns the aggregate counts.
// A single episode's failure never aborts the series.
func (r *SeriesRunner) Run(ctx context.Context, series config.Series) SeriesResult {
	episodes := r.enumerator.Episodes(ctx, series)
	result := SeriesResult{Series: series.Name, Total: len(episodes)}
	if len(episodes) == 0 {
		return result
	}

	jobs := make(chan catalog.Episode)
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go func() {
			defer wg.Done()
			for episode := range jobs {
				outcome := r.processEpisode(ctx, episode)
				mu.Lock()
				switch outcome.State {
				case pipeline.StateCompleted:
					result.Succeeded++
				case pipeline.StateSkipped:
					result.Skipped++
				default:
					result.Failed++
				}
				mu.Unlock()

				if r.episodeDelay > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(r.episodeDelay):
					}
				}
			}
		}()
	}

feed:
	for _, episode := range episodes {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- episode:
		}
	}
	close(jobs)
	wg.Wait()

	r.logger.Info("series finished",
		logging.String("series", series.Name),
		logging.Int("succeeded", result.Succeeded),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed),
		logging.Int("total", result.Total),
	)
	return result
}

// processEpisode is the per-episode isolation boundary: an unexpected panic
// is converted into a failed outcome instead of taking down the series.
func (r *SeriesRunner) processEpisode(ctx context.Context, episode catalog.Episode) (outcome pipeline.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("episode processing panicked",
				logging.String("series", episode.Series),
				logging.Int("episode", episode.Index),
				logging.Any("panic", rec),
			)
			outcome = pipeline.Result{Err: fmt.Errorf("episode panicked: %v", rec)}
		}
	}()
	return r.processor.Process(ctx, episode)
}
