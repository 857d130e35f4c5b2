// Package storage holds the SQLite connection settings shared by the
// modules that persist to the same database file.
package storage

import "strings"

// SQLiteDSN decorates a database path with the connection parameters
// the application needs. Several modules open the same file, so writes
// from one module can overlap a commit from another; WAL plus a busy
// timeout makes the overlapping writer wait instead of failing with
// "database is locked". In-memory databases are returned unchanged.
func SQLiteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}
