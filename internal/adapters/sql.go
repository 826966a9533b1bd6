package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLAdapter wraps a database/sql handle opened from a spec URI.
// The connection is opened and verified eagerly in the factory, so a
// successful Build means the database is reachable.
type SQLAdapter struct {
	BaseAdapter
	db        *sql.DB
	closeOnce sync.Once
}

func init() {
	RegisterKind("sql", NewSQLAdapter)
	// "sqlite3" is accepted as a kind alias for hosts migrating configs that
	// named the driver rather than the backend family.
	RegisterKind("sqlite3", NewSQLAdapter)
}

// NewSQLAdapter opens a SQL backend from a URI like "sqlite://path/to.db",
// "sqlite3://localhost/path/to.db", or "sqlite://:memory:".
func NewSQLAdapter(name, uri string) (Adapter, error) {
	dsn, err := sqliteDSN(uri)
	if err != nil {
		return nil, fmt.Errorf("sql adapter %q: %w", name, err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql adapter %q: open %s: %w", name, dsn, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sql adapter %q: ping %s: %w", name, dsn, err)
	}

	log.Debug().Str("adapter", name).Str("dsn", dsn).Msg("sql adapter opened")

	return &SQLAdapter{
		BaseAdapter: BaseAdapter{name: name, kind: "sql"},
		db:          db,
	}, nil
}

// sqliteDSN converts a spec URI to a modernc sqlite DSN.
// Accepts sqlite:// and sqlite3:// schemes; a "localhost" authority is
// ignored so "sqlite3://localhost/tmp/app.db" maps to "/tmp/app.db".
func sqliteDSN(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("uri is required for sql backends")
	}

	rest := uri
	for _, scheme := range []string{"sqlite3://", "sqlite://"} {
		if strings.HasPrefix(rest, scheme) {
			rest = strings.TrimPrefix(rest, scheme)
			break
		}
	}
	rest = strings.TrimPrefix(rest, "localhost/")

	if rest == "" || rest == ":memory:" {
		return ":memory:", nil
	}
	return rest, nil
}

// DB exposes the underlying handle for hosts that need raw access.
func (a *SQLAdapter) DB() *sql.DB {
	return a.db
}

// Exec runs a statement that returns no rows.
func (a *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return a.db.ExecContext(ctx, query, args...)
}

// Query runs a statement that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return a.db.QueryContext(ctx, query, args...)
}

// QueryRow runs a statement expected to return at most one row.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return a.db.QueryRowContext(ctx, query, args...)
}

// Ping verifies the database connection.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close releases the database handle.
func (a *SQLAdapter) Close() error {
	var err error
	a.closeOnce.Do(func() {
		err = a.db.Close()
	})
	return err
}
