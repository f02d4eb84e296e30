// Package db builds validated read connections for the supported
// backends. Every connection is verified with a ping before it is
// handed out.
package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Backend identifies a supported database engine.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
)

// ParseBackend normalizes a backend name.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3", "":
		return BackendSQLite, nil
	case "postgres", "postgresql", "pg":
		return BackendPostgres, nil
	case "mysql", "mariadb":
		return BackendMySQL, nil
	default:
		return "", fmt.Errorf("unsupported backend: %q", name)
	}
}

// Options holds connection parameters. Path applies to sqlite; the
// network fields apply to postgres and mysql.
type Options struct {
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Connect opens and pings a connection for the backend. SQLite files
// are opened read-only so the driver itself refuses writes.
func Connect(ctx context.Context, backend Backend, opts Options) (*sqlx.DB, error) {
	driver, dsn, err := buildDSN(backend, opts)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}

	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", backend, err)
	}
	return conn, nil
}

// buildDSN returns the driver name and DSN for the backend.
func buildDSN(backend Backend, opts Options) (string, string, error) {
	switch backend {
	case BackendSQLite:
		return sqliteDSN(opts)
	case BackendPostgres:
		return postgresDSN(opts)
	case BackendMySQL:
		return mysqlDSN(opts)
	default:
		return "", "", fmt.Errorf("unsupported backend: %q", backend)
	}
}

func sqliteDSN(opts Options) (string, string, error) {
	if opts.Path == "" {
		return "", "", fmt.Errorf("sqlite: database path required")
	}
	// The driver happily creates missing files; check first so a typo
	// fails loudly instead of yielding an empty database.
	if _, err := os.Stat(opts.Path); err != nil {
		return "", "", fmt.Errorf("sqlite: %w", err)
	}
	return "sqlite3", fmt.Sprintf("file:%s?mode=ro", escapePath(opts.Path)), nil
}

// escapePath escapes each path segment so characters like '?' and '#'
// cannot corrupt the sqlite file URI.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func postgresDSN(opts Options) (string, string, error) {
	if opts.Database == "" {
		return "", "", fmt.Errorf("postgres: database name required")
	}
	host := opts.Host
	if host == "" {
		host = "localhost"
	}
	port := opts.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/" + opts.Database,
	}
	if opts.User != "" {
		u.User = url.UserPassword(opts.User, opts.Password)
	}
	query := url.Values{}
	query.Set("sslmode", "prefer")
	u.RawQuery = query.Encode()
	return "postgres", u.String(), nil
}

func mysqlDSN(opts Options) (string, string, error) {
	if opts.Database == "" {
		return "", "", fmt.Errorf("mysql: database name required")
	}
	host := opts.Host
	if host == "" {
		host = "localhost"
	}
	port := opts.Port
	if port == 0 {
		port = 3306
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.DBName = opts.Database
	cfg.ParseTime = true
	return "mysql", cfg.FormatDSN(), nil
}
