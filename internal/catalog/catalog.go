package catalog

import (
	"context"
	"log/slog"

	"reelvault/internal/config"
	"reelvault/internal/logging"
)

// Episode is an immutable reference to one unit of work within a series.
// Indexes are 1-based in playlist order.
type Episode struct {
	Series    string
	Index     int
	SourceURL string
}

// Resolver turns a playlist source URL into an ordered list of episode
// source URLs. Implementations may fail or return a partial list.
type Resolver interface {
	Resolve(ctx context.Context, playlistURL string) ([]string, error)
}

// Enumerator produces episode references for configured series.
type Enumerator struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewEnumerator wraps a resolver with series-level error absorption.
func NewEnumerator(resolver Resolver, logger *slog.Logger) *Enumerator {
	return &Enumerator{
		resolver: resolver,
		logger:   logging.WithComponent(logger, "catalog"),
	}
}

// Episodes resolves a series' playlist. Resolution failure is not fatal:
// the series is logged as having zero episodes and an empty slice is
// returned.
func (e *Enumerator) Episodes(ctx context.Context, series config.Series) []Episode {
	urls, err := e.resolver.Resolve(ctx, series.PlaylistURL)
	if err != nil {
		e.logger.Warn("playlist resolution failed, treating series as empty",
			logging.String("series", series.Name),
			logging.Error(err),
		)
		return nil
	}

	episodes := make([]Episode, 0, len(urls))
	for i, url := range urls {
		if url == "" {
			continue
		}
		episodes = append(episodes, Episode{
			Series:    series.Name,
			Index:     i + 1,
			SourceURL: url,
		})
	}

	e.logger.Info("resolved playlist",
		logging.String("series", series.Name),
		logging.Int("episodes", len(episodes)),
	)
	return episodes
}
