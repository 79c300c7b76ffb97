package remotestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"reelvault/internal/fileutil"
)

// FSStore implements ObjectStore over a mounted directory, typically a
// network share standing in for a bucket. Re-uploading an existing key
// overwrites in place and is not an error.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at dir.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

// Put copies localPath to <root>/<remoteKey> and returns the destination
// path as the object reference.
func (s *FSStore) Put(_ context.Context, localPath, remoteKey string) (string, error) {
	dest := filepath.Join(s.root, filepath.FromSlash(remoteKey))
	if err := fileutil.CopyFile(localPath, dest); err != nil {
		return "", fmt.Errorf("store object %s: %w", remoteKey, err)
	}
	return dest, nil
}

// EnsurePrefix creates the directory for a remote prefix. An existing
// directory is success.
func (s *FSStore) EnsurePrefix(_ context.Context, remotePrefix string) error {
	dir := filepath.Join(s.root, filepath.FromSlash(remotePrefix))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure prefix %s: %w", remotePrefix, err)
	}
	return nil
}
