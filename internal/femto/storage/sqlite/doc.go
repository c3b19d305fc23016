// Package sqlite persists femto runs: one row per CLI run with its
// configuration and settings, per-analysis counters, and every output
// histogram bin by bin.
//
// The schema lives in internal/db/migrations.
package sqlite
