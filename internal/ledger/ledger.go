package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reelvault/internal/logging"
)

// Options configures the coordination policy.
type Options struct {
	// Prefix namespaces all ledger keys.
	Prefix string
	// StaleAfter is the age beyond which a processing claim is presumed
	// abandoned and reclaimable.
	StaleAfter time.Duration
	// WorkerID identifies this worker in claim records. A random identity
	// is generated when empty.
	WorkerID string
}

// Ledger decides whether a job may be worked on. A nil backend degrades
// coordination to the session-local processed set only: every claim is
// granted (single-worker assumption), while any backend error on an
// existing entry denies the claim to avoid duplicate concurrent work.
type Ledger struct {
	backend    Backend
	prefix     string
	staleAfter time.Duration
	workerID   string
	session    *ProcessedSet
	logger     *slog.Logger
	now        func() time.Time
}

// New constructs a ledger over backend. backend may be nil.
func New(backend Backend, opts Options, logger *slog.Logger) *Ledger {
	workerID := opts.WorkerID
	if workerID == "" {
		workerID = "worker-" + uuid.NewString()
	}
	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	return &Ledger{
		backend:    backend,
		prefix:     opts.Prefix,
		staleAfter: staleAfter,
		workerID:   workerID,
		session:    NewProcessedSet(),
		logger:     logging.WithComponent(logger, "ledger"),
		now:        time.Now,
	}
}

// WorkerID returns the identity written into claim records.
func (l *Ledger) WorkerID() string {
	return l.workerID
}

// Session exposes the session-local processed set.
func (l *Ledger) Session() *ProcessedSet {
	return l.session
}

// Key renders the backend key for a job.
func (l *Ledger) Key(key JobKey) string {
	return fmt.Sprintf("%s/%s/episode_%d.json", l.prefix, key.Series, key.Episode)
}

// TryClaim attempts to reserve a job for this worker. It returns true when
// the job was unclaimed, or held by a claim older than the staleness
// threshold, or when no backend is configured. It returns false when the
// job is complete, actively claimed, already done this session, or when
// the backend misbehaves.
func (l *Ledger) TryClaim(ctx context.Context, key JobKey) bool {
	if l.session.Contains(key) {
		return false
	}
	if l.backend == nil {
		return true
	}

	storeKey := l.Key(key)
	raw, err := l.backend.Get(ctx, storeKey)
	switch {
	case errors.Is(err, ErrNotFound):
		// Unclaimed.
	case err != nil:
		l.logger.Warn("ledger read failed, denying claim",
			logging.String("job", key.String()),
			logging.Error(err),
		)
		return false
	default:
		var existing Record
		if err := json.Unmarshal(raw, &existing); err != nil {
			l.logger.Warn("ledger entry unreadable, denying claim",
				logging.String("job", key.String()),
				logging.Error(err),
			)
			return false
		}
		if existing.Status == StatusComplete {
			return false
		}
		if !existing.StaleAt(l.now(), l.staleAfter) {
			return false
		}
		l.logger.Info("reclaiming stale job",
			logging.String("job", key.String()),
			logging.String("previous_owner", existing.Owner),
		)
	}

	claim := Record{
		Status:       StatusProcessing,
		Owner:        l.workerID,
		StartTime:    l.now().Unix(),
		Series:       key.Series,
		EpisodeIndex: key.Episode,
	}
	payload, err := json.Marshal(claim)
	if err != nil {
		l.logger.Error("encode claim record", logging.Error(err))
		return false
	}
	if err := l.backend.Put(ctx, storeKey, payload); err != nil {
		l.logger.Warn("ledger write failed, denying claim",
			logging.String("job", key.String()),
			logging.Error(err),
		)
		return false
	}
	return true
}

// MarkComplete unconditionally records a job as complete and adds it to the
// session-local processed set. Backend failures are returned for logging
// but the job is still considered locally done.
func (l *Ledger) MarkComplete(ctx context.Context, key JobKey) error {
	l.session.Add(key)
	if l.backend == nil {
		return nil
	}

	record := Record{
		Status:        StatusComplete,
		Owner:         l.workerID,
		CompletedTime: l.now().Unix(),
		Series:        key.Series,
		EpisodeIndex:  key.Episode,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode completion record: %w", err)
	}
	if err := l.backend.Put(ctx, l.Key(key), payload); err != nil {
		return fmt.Errorf("write completion record: %w", err)
	}
	return nil
}

// Entry fetches and decodes the ledger record for a job, or nil when no
// entry exists.
func (l *Ledger) Entry(ctx context.Context, key JobKey) (*Record, error) {
	if l.backend == nil {
		return nil, nil
	}
	raw, err := l.backend.Get(ctx, l.Key(key))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode ledger entry: %w", err)
	}
	return &record, nil
}
