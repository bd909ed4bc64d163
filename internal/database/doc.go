// Package database provides SQLite-based storage for gdpdash run history.
//
// Every run of the pipeline can be recorded with its configuration, result,
// dataset checksum and the full JSON report. The history lets a user see how
// a statistic moved between dataset revisions and re-open an old report.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets the dashboard read while a CLI run writes
package database
