// Package main hosts the reelvault CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the default campaign run, configuration
// scaffolding and inspection, and job-ledger listing. Configuration
// resolution, logging setup, and signal handling live here so subcommands stay
// thin; the processing behavior itself lives in the internal packages.
package main
