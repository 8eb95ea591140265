// Package database provides SQLite-based run history for codefactor.
//
// The HistoryDB stores:
//   - One row per run with its root directory, log path and counters
//   - One row per processed file with its backup, new name, hash and outcome
//   - The full run summary as JSON so reports can be regenerated later
//
// SQLite (via modernc.org/sqlite) keeps the history in a single CGO-free file
// under the XDG data directory. WAL mode lets `codefactor history` read while
// another run is writing.
package database
