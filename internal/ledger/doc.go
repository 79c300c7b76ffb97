// Package ledger implements best-effort job coordination for (series,
// episode) work units: claim, stale-claim reclamation, and completion
// marking layered over a pluggable key-value backend.
//
// The check-then-claim sequence is advisory, not linearizable. The backend
// contract offers no conditional write, so two workers racing between the
// read and the write can both claim a job and duplicate work. That window
// is an accepted limitation; the ledger guarantees no worse than
// best-effort exclusivity.
package ledger
