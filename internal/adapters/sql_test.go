package adapters

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "plain path", uri: "sqlite://./app.db", want: "./app.db"},
		{name: "sqlite3 scheme with localhost", uri: "sqlite3://localhost/database", want: "database"},
		{name: "absolute path", uri: "sqlite:///tmp/app.db", want: "/tmp/app.db"},
		{name: "memory", uri: "sqlite://:memory:", want: ":memory:"},
		{name: "bare scheme", uri: "sqlite://", want: ":memory:"},
		{name: "empty uri", uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqliteDSN(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLAdapterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	raw, err := New("sql", "main", "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	a, ok := raw.(*SQLAdapter)
	require.True(t, ok)
	assert.Equal(t, "main", a.Name())
	assert.Equal(t, "sql", a.Kind())

	ctx := context.Background()
	require.NoError(t, a.Ping(ctx))

	_, err = a.Exec(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	_, err = a.Exec(ctx, `INSERT INTO users (name) VALUES (?), (?)`, "ada", "grace")
	require.NoError(t, err)

	var count int
	require.NoError(t, a.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 2, count)

	rows, err := a.Query(ctx, `SELECT name FROM users ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"ada", "grace"}, names)
}

func TestSQLAdapterInMemory(t *testing.T) {
	raw, err := New("sqlite3", "scratch", "sqlite://:memory:")
	require.NoError(t, err)

	a := raw.(*SQLAdapter)
	_, err = a.Exec(context.Background(), `CREATE TABLE t (v INTEGER)`)
	require.NoError(t, err)

	// Close twice is safe.
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestSQLAdapterRequiresURI(t *testing.T) {
	_, err := New("sql", "main", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uri is required")
}
