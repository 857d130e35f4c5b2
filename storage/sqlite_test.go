package storage

import "testing"

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "file path gains WAL and busy timeout",
			path: "taskmanager.db",
			want: "taskmanager.db?_journal_mode=WAL&_busy_timeout=5000",
		},
		{
			name: "in-memory path untouched",
			path: ":memory:",
			want: ":memory:",
		},
		{
			name: "shared memory DSN untouched",
			path: "file:test?mode=memory&cache=shared",
			want: "file:test?mode=memory&cache=shared",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SQLiteDSN(tt.path); got != tt.want {
				t.Errorf("SQLiteDSN(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
