// Package config loads and validates the TOML configuration that drives the
// worker: directory layout, series catalog, ledger coordination policy,
// fetch retry budgets, remote store behavior, and scheduling mode.
package config
