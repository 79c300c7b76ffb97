// Package runner schedules episode pipelines across a series and iterates
// the configured series catalog, with per-episode and per-series failure
// isolation.
package runner
