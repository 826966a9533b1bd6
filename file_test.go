package relmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesRegistersAdapters(t *testing.T) {
	data := []byte(`
adapters:
  - name: postgres
    kind: sql
    uri: sqlite3://localhost/database
    default: true
  - name: sessions
    kind: memory
`)

	cfg := New()
	require.NoError(t, cfg.LoadBytes(data))

	specs := cfg.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "sqlite3://localhost/database", specs["postgres"].URI)
	assert.Equal(t, "memory", specs["sessions"].Kind)

	name, ok := cfg.DefaultName()
	require.True(t, ok)
	assert.Equal(t, "postgres", name)
}

func TestLoadBytesExpandsEnv(t *testing.T) {
	t.Setenv("RELMAP_TEST_URI", "sqlite://from-env.db")

	data := []byte(`
adapters:
  - name: main
    kind: sql
    uri: ${RELMAP_TEST_URI}
  - name: fallback
    kind: sql
    uri: ${RELMAP_TEST_UNSET:-sqlite://fallback.db}
`)

	cfg := New()
	require.NoError(t, cfg.LoadBytes(data))

	specs := cfg.Specs()
	assert.Equal(t, "sqlite://from-env.db", specs["main"].URI)
	assert.Equal(t, "sqlite://fallback.db", specs["fallback"].URI)
}

func TestLoadBytesValidatesEntries(t *testing.T) {
	data := []byte(`
adapters:
  - name: good
    kind: memory
  - kind: memory
`)

	cfg := New()
	err := cfg.LoadBytes(data)
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Field)
	assert.Contains(t, err.Error(), "adapters[1]")
}

func TestLoadBytesRejectsMalformedYAML(t *testing.T) {
	cfg := New()
	require.Error(t, cfg.LoadBytes([]byte("adapters: [")))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
adapters:
  - name: main
    kind: memory
`), 0600))

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))
	assert.Len(t, cfg.Specs(), 1)
}

func TestLoadFileMissing(t *testing.T) {
	cfg := New()
	require.Error(t, cfg.LoadFile(""))
	require.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestExpandEnvWithDefaults(t *testing.T) {
	t.Setenv("RELMAP_TEST_VAR", "set")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "set variable", in: "${RELMAP_TEST_VAR}", want: "set"},
		{name: "set variable ignores default", in: "${RELMAP_TEST_VAR:-other}", want: "set"},
		{name: "unset with default", in: "${RELMAP_TEST_NOPE:-fallback}", want: "fallback"},
		{name: "unset without default", in: "${RELMAP_TEST_NOPE}", want: ""},
		{name: "no expansion", in: "plain text", want: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandEnvWithDefaults(tt.in))
		})
	}
}
