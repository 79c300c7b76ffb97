package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"reelvault/internal/config"
	"reelvault/internal/logging"
)

// CampaignResult collects per-series aggregates for a full run.
type CampaignResult struct {
	Series []SeriesResult
}

// Totals sums the per-series counts.
func (c CampaignResult) Totals() (succeeded, skipped, failed, total int) {
	for _, s := range c.Series {
		succeeded += s.Succeeded
		skipped += s.Skipped
		failed += s.Failed
		total += s.Total
	}
	return
}

// CampaignRunner iterates every configured series. The fatal isolation
// boundary is per-series: a series blowing up is logged and the campaign
// moves on.
type CampaignRunner struct {
	series   []config.Series
	runner   *SeriesRunner
	lockPath string
	logger   *slog.Logger
}

// NewCampaignRunner builds the campaign driver. lockPath guards against a
// second worker instance sharing this data directory.
func NewCampaignRunner(series []config.Series, runner *SeriesRunner, lockPath string, logger *slog.Logger) *CampaignRunner {
	return &CampaignRunner{
		series:   series,
		runner:   runner,
		lockPath: lockPath,
		logger:   logging.WithComponent(logger, "campaign"),
	}
}

// Run processes all series to completion and returns the aggregate result.
// The only errors returned are lock acquisition failures; individual series
// and episode failures are absorbed and counted.
func (c *CampaignRunner) Run(ctx context.Context) (CampaignResult, error) {
	if err := os.MkdirAll(filepath.Dir(c.lockPath), 0o755); err != nil {
		return CampaignResult{}, fmt.Errorf("prepare lock directory: %w", err)
	}
	lock := flock.New(c.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return CampaignResult{}, fmt.Errorf("acquire worker lock: %w", err)
	}
	if !ok {
		return CampaignResult{}, errors.New("another worker instance is already running")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	c.logger.Info("campaign starting", logging.Int("series", len(c.series)))

	var result CampaignResult
	for _, series := range c.series {
		if ctx.Err() != nil {
			break
		}
		result.Series = append(result.Series, c.runSeries(ctx, series))
	}

	succeeded, skipped, failed, total := result.Totals()
	c.logger.Info("campaign finished",
		logging.Int("succeeded", succeeded),
		logging.Int("skipped", skipped),
		logging.Int("failed", failed),
		logging.Int("total", total),
	)
	return result, nil
}

func (c *CampaignRunner) runSeries(ctx context.Context, series config.Series) (outcome SeriesResult) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("series processing panicked, continuing with next series",
				logging.String("series", series.Name),
				logging.Any("panic", rec),
			)
			outcome.Series = series.Name
		}
	}()
	return c.runner.Run(ctx, series)
}
