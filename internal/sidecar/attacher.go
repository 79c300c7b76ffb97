package sidecar

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"reelvault/internal/fileutil"
	"reelvault/internal/logging"
	"reelvault/internal/remotestore"
	"reelvault/internal/textutil"
)

// Attacher discovers transcript side-files for an episode and pushes them
// alongside the episode's remote artifact. Sidecars are strictly optional:
// nothing here ever fails an episode.
type Attacher struct {
	transcriptDir string
	languages     []string
	store         *remotestore.Adapter
	logger        *slog.Logger
}

// New builds an attacher. store may be nil, in which case found sidecars
// are only counted.
func New(transcriptDir string, languages []string, store *remotestore.Adapter, logger *slog.Logger) *Attacher {
	return &Attacher{
		transcriptDir: transcriptDir,
		languages:     languages,
		store:         store,
		logger:        logging.WithComponent(logger, "sidecar"),
	}
}

// Candidates returns the fixed, deterministic set of transcript filenames
// for an episode: one translated ("_T") and one plain variant per
// configured language.
func (a *Attacher) Candidates(series string, index int) []string {
	base := fmt.Sprintf("%s_Ep_%d", textutil.SanitizeName(series), index)
	names := make([]string, 0, len(a.languages)*2)
	for _, lang := range a.languages {
		names = append(names,
			fmt.Sprintf("%s_%s_T.txt", base, lang),
			fmt.Sprintf("%s_%s.txt", base, lang),
		)
	}
	return names
}

// FindAndAttach uploads every locally present candidate transcript and
// returns the number handled. Missing files and failed uploads are logged
// and skipped.
func (a *Attacher) FindAndAttach(ctx context.Context, series string, index int) int {
	slug := textutil.SanitizeName(series)
	count := 0
	for _, name := range a.Candidates(series, index) {
		localPath := filepath.Join(a.transcriptDir, name)
		if !fileutil.NonEmptyFile(localPath) {
			continue
		}

		if a.store != nil {
			remoteKey := fmt.Sprintf("transcripts/%s/%s", slug, name)
			if _, err := a.store.Upload(ctx, localPath, remoteKey); err != nil {
				a.logger.Warn("sidecar upload failed",
					logging.String("file", name),
					logging.Error(err),
				)
				continue
			}
		}

		count++
		a.logger.Debug("attached sidecar",
			logging.String("series", series),
			logging.Int("episode", index),
			logging.String("file", name),
		)
	}
	return count
}
