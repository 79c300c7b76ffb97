// Package pipeline implements the per-episode state machine: claim the
// job, download the media, store it durably, attach transcript sidecars,
// and mark completion. Claim denial is a normal outcome, not an error;
// failure states leave the claim behind for stale reclamation.
package pipeline
