package testsupport

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"reelvault/internal/ledger"
)

// MemoryBackend is an in-memory ledger.Backend with error injection for
// exercising fail-closed behavior.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string][]byte

	GetErr error
	PutErr error
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string][]byte)}
}

// Get implements ledger.Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return nil, b.GetErr
	}
	value, ok := b.entries[key]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Put implements ledger.Backend.
func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PutErr != nil {
		return b.PutErr
	}
	b.entries[key] = append([]byte(nil), value...)
	return nil
}

// Seed stores a marshaled record under key.
func (b *MemoryBackend) Seed(t testing.TB, key string, record ledger.Record) {
	t.Helper()
	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal seed record: %v", err)
	}
	b.mu.Lock()
	b.entries[key] = payload
	b.mu.Unlock()
}

// SeedRaw stores an arbitrary payload under key.
func (b *MemoryBackend) SeedRaw(key string, value []byte) {
	b.mu.Lock()
	b.entries[key] = append([]byte(nil), value...)
	b.mu.Unlock()
}

// Record fetches and decodes the entry stored under key, failing the test
// when it is absent or unreadable.
func (b *MemoryBackend) Record(t testing.TB, key string) ledger.Record {
	t.Helper()
	b.mu.Lock()
	raw, ok := b.entries[key]
	b.mu.Unlock()
	if !ok {
		t.Fatalf("no ledger entry for key %s", key)
	}
	var record ledger.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("decode ledger entry: %v", err)
	}
	return record
}

// Len returns the number of stored entries.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
