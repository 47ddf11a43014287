package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() != driverSQLite {
		t.Errorf("Driver() = %q", s.Driver())
	}
	// Migrations are idempotent.
	if err := s.migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode stays "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost/lexicon?sslmode=disable", driverPostgres},
		{"postgresql://localhost/lexicon", driverPostgres},
		{"/var/lib/lexicon.db", driverSQLite},
		{":memory:", driverSQLite},
		{"file:test.db?cache=shared", driverSQLite},
	}
	for _, tt := range tests {
		if got := driverFor(tt.dsn); got != tt.want {
			t.Errorf("driverFor(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestTimeCodec(t *testing.T) {
	if formatTime(parseMust(t, "")) != "" {
		t.Error("zero time should format as empty")
	}
	a := parseMust(t, "2025-01-02T03:04:05.000000001Z")
	b := parseMust(t, "2025-01-02T03:04:05.100000000Z")
	if !(formatTime(a) < formatTime(b)) {
		t.Errorf("%s should sort before %s", formatTime(a), formatTime(b))
	}
	if _, err := parseTime("yesterday"); err == nil {
		t.Error("expected parse error")
	}
}

func parseMust(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := parseTime(s)
	if err != nil {
		t.Fatalf("parseTime(%q): %v", s, err)
	}
	return v
}
