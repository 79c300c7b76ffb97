package remotestore

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"reelvault/internal/config"
	"reelvault/internal/fileutil"
	"reelvault/internal/logging"
)

// ObjectStore is the external durable-storage collaborator. Put stores a
// local file under a remote key and returns an addressable reference.
// EnsurePrefix creates any missing parent "directories", treating
// already-exists as success.
type ObjectStore interface {
	Put(ctx context.Context, localPath, remoteKey string) (string, error)
	EnsurePrefix(ctx context.Context, remotePrefix string) error
}

// Adapter wraps an object store with the deployment's fallback policy.
// With a nil store every upload lands in the fallback directory.
type Adapter struct {
	store         ObjectStore
	fallbackDir   string
	requireRemote bool
	logger        *slog.Logger
}

// NewAdapter builds the store adapter. store may be nil for local-only
// deployments.
func NewAdapter(store ObjectStore, cfg config.Store, fallbackDir string, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:         store,
		fallbackDir:   fallbackDir,
		requireRemote: cfg.RequireRemote,
		logger:        logging.WithComponent(logger, "store"),
	}
}

// Upload stores localPath under remoteKey and returns a reference to the
// stored object. Remote failure degrades to a copy in the local fallback
// directory unless the deployment requires remote storage, in which case
// the error is returned and the episode fails.
func (a *Adapter) Upload(ctx context.Context, localPath, remoteKey string) (string, error) {
	if a.store != nil {
		ref, err := a.uploadRemote(ctx, localPath, remoteKey)
		if err == nil {
			return ref, nil
		}
		if a.requireRemote {
			return "", fmt.Errorf("remote store required: %w", err)
		}
		a.logger.Warn("remote store unavailable, falling back to local copy",
			logging.String("remote_key", remoteKey),
			logging.Error(err),
		)
	} else if a.requireRemote {
		return "", fmt.Errorf("remote store required but none is configured")
	}

	return a.uploadFallback(localPath, remoteKey)
}

func (a *Adapter) uploadRemote(ctx context.Context, localPath, remoteKey string) (string, error) {
	if prefix := path.Dir(remoteKey); prefix != "." && prefix != "/" {
		if err := a.store.EnsurePrefix(ctx, prefix); err != nil {
			return "", fmt.Errorf("ensure remote prefix %s: %w", prefix, err)
		}
	}
	ref, err := a.store.Put(ctx, localPath, remoteKey)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", remoteKey, err)
	}
	return ref, nil
}

func (a *Adapter) uploadFallback(localPath, remoteKey string) (string, error) {
	if a.fallbackDir == "" {
		return "", fmt.Errorf("no fallback directory configured for %s", remoteKey)
	}
	dest := filepath.Join(a.fallbackDir, filepath.FromSlash(remoteKey))
	if err := fileutil.CopyFile(localPath, dest); err != nil {
		return "", fmt.Errorf("fallback copy: %w", err)
	}
	return dest, nil
}
