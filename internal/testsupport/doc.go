// Package testsupport provides shared fixtures for package tests: seeded
// configs, stubbed external binaries, and an in-memory ledger backend.
package testsupport
