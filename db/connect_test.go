package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"sqlite", BackendSQLite, false},
		{"sqlite3", BackendSQLite, false},
		{"", BackendSQLite, false},
		{"Postgres", BackendPostgres, false},
		{"postgresql", BackendPostgres, false},
		{"pg", BackendPostgres, false},
		{"mysql", BackendMySQL, false},
		{"mariadb", BackendMySQL, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBackend(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBackend(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSqliteDSNReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	driver, dsn, err := buildDSN(BackendSQLite, Options{Path: path})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if driver != "sqlite3" {
		t.Errorf("driver = %q", driver)
	}
	if !strings.HasPrefix(dsn, "file:") || !strings.Contains(dsn, "mode=ro") {
		t.Errorf("dsn = %q, want read-only file DSN", dsn)
	}
}

func TestSqliteDSNEscapesReservedCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd?name#1.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, dsn, err := buildDSN(BackendSQLite, Options{Path: path})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	// The only '?' in the URI is the query separator; '?' and '#' in
	// the path must be percent-encoded.
	if got := strings.Count(dsn, "?"); got != 1 {
		t.Errorf("dsn = %q, want exactly one '?', got %d", dsn, got)
	}
	if !strings.Contains(dsn, "%3F") || !strings.Contains(dsn, "%23") {
		t.Errorf("dsn = %q, want escaped '?' and '#'", dsn)
	}
	if !strings.HasSuffix(dsn, "?mode=ro") {
		t.Errorf("dsn = %q, want read-only query", dsn)
	}
}

func TestSqliteDSNMissingFile(t *testing.T) {
	_, _, err := buildDSN(BackendSQLite, Options{Path: filepath.Join(t.TempDir(), "absent.db")})
	if err == nil {
		t.Error("expected error for missing database file")
	}
}

func TestSqliteDSNEmptyPath(t *testing.T) {
	_, _, err := buildDSN(BackendSQLite, Options{})
	if err == nil {
		t.Error("expected error for empty path")
	}
}

func TestPostgresDSN(t *testing.T) {
	_, dsn, err := buildDSN(BackendPostgres, Options{
		Host:     "db.internal",
		Port:     5433,
		User:     "reader",
		Password: "p@ss:word/",
		Database: "school",
	})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "db.internal:5433") || !strings.Contains(dsn, "/school") {
		t.Errorf("dsn missing host or database: %q", dsn)
	}
	// Credentials with reserved characters must be escaped.
	if strings.Contains(dsn, "p@ss:word/") {
		t.Errorf("password not escaped: %q", dsn)
	}
}

func TestPostgresDSNDefaults(t *testing.T) {
	_, dsn, err := buildDSN(BackendPostgres, Options{Database: "school"})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(dsn, "localhost:5432") {
		t.Errorf("dsn = %q, want default host and port", dsn)
	}
}

func TestPostgresDSNRequiresDatabase(t *testing.T) {
	_, _, err := buildDSN(BackendPostgres, Options{Host: "somewhere"})
	if err == nil {
		t.Error("expected error for missing database name")
	}
}

func TestMysqlDSN(t *testing.T) {
	_, dsn, err := buildDSN(BackendMySQL, Options{
		Host:     "db.internal",
		Port:     3307,
		User:     "reader",
		Password: "secret",
		Database: "school",
	})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(dsn, "tcp(db.internal:3307)") {
		t.Errorf("dsn = %q, want tcp address", dsn)
	}
	if !strings.Contains(dsn, "/school") {
		t.Errorf("dsn missing database: %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("dsn = %q, want parseTime", dsn)
	}
}

func TestMysqlDSNDefaults(t *testing.T) {
	_, dsn, err := buildDSN(BackendMySQL, Options{Database: "school"})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(dsn, "tcp(localhost:3306)") {
		t.Errorf("dsn = %q, want default host and port", dsn)
	}
}

func TestConnectSqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school.db")
	seed, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	seed.Close()

	conn, err := Connect(context.Background(), BackendSQLite, Options{Path: path})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer conn.Close()

	if conn.DriverName() != "sqlite3" {
		t.Errorf("driver = %q", conn.DriverName())
	}
	// mode=ro must reject writes at the driver level.
	if _, err := conn.Exec(`CREATE TABLE t (id INTEGER)`); err == nil {
		t.Error("expected write on read-only connection to fail")
	}
}
