// Package database provides SQLite-based storage for profile snapshots.
//
// Every rendered profile can be saved as a snapshot: the counts and totals
// shown on the page, a digest of the project list, and the full profile as
// JSON. Snapshots of one user form a history that the history command
// compares run over run.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of plain
// JSON files because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. History queries (latest N, per user) are one SELECT each
// 4. WAL mode lets a history query run while another process saves
package database
