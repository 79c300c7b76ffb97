package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"reelvault/internal/config"
	"reelvault/internal/fileutil"
	"reelvault/internal/logging"
)

// Extractor downloads the media behind a source URL into destPath. A nil
// error with a missing or empty destination still counts as a failed
// attempt; the Fetcher verifies the artifact independently.
type Extractor interface {
	Extract(ctx context.Context, sourceURL, destPath, format string) error
}

// Fetcher wraps an extractor with a bounded-retry policy and linear
// backoff.
type Fetcher struct {
	extractor Extractor
	attempts  int
	baseDelay time.Duration
	format    string
	logger    *slog.Logger
}

// New builds a fetcher from the configured retry budget.
func New(extractor Extractor, cfg config.Fetch, logger *slog.Logger) *Fetcher {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Fetcher{
		extractor: extractor,
		attempts:  attempts,
		baseDelay: time.Duration(cfg.BaseDelaySeconds) * time.Second,
		format:    cfg.Format,
		logger:    logging.WithComponent(logger, "fetch"),
	}
}

// Fetch downloads sourceURL to destPath, retrying transient failures up to
// the attempt budget with linearly increasing delays. A successful return
// guarantees destPath exists with nonzero size; on failure no partial file
// is left behind.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL, destPath string) error {
	if dir := filepath.Dir(destPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download directory: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		err := f.extractor.Extract(ctx, sourceURL, destPath, f.format)
		if err == nil {
			if fileutil.NonEmptyFile(destPath) {
				return nil
			}
			err = fmt.Errorf("extractor reported success but %s is missing or empty", destPath)
		}
		lastErr = err

		// Never retain a partial artifact between attempts.
		if removeErr := fileutil.RemoveIfExists(destPath); removeErr != nil {
			f.logger.Warn("failed to remove partial download",
				logging.String("path", destPath),
				logging.Error(removeErr),
			)
		}

		if ctx.Err() != nil {
			return fmt.Errorf("fetch canceled: %w", ctx.Err())
		}
		if attempt == f.attempts {
			break
		}

		delay := f.baseDelay * time.Duration(attempt)
		f.logger.Warn("download attempt failed",
			logging.String("url", sourceURL),
			logging.Int("attempt", attempt),
			logging.Duration("retry_in", delay),
			logging.Error(err),
		)
		if delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("fetch canceled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("download failed after %d attempts: %w", f.attempts, lastErr)
}
