package ledger

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Get when no value exists for a key.
var ErrNotFound = errors.New("ledger: key not found")

// Backend is the key-value store the ledger policy layers over. Values are
// opaque serialized records. Implementations must return ErrNotFound (or a
// wrapper of it) for missing keys so the policy can distinguish "unclaimed"
// from "backend unavailable".
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Lister is an optional Backend extension used for diagnostics output.
type Lister interface {
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}
