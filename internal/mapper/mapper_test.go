package mapper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmap/relmap/internal/adapters"
)

func buildAdapter(t *testing.T, kind, name string) adapters.Adapter {
	t.Helper()
	a, err := adapters.New(kind, name, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestDefinitionKeepsLastDeclaration(t *testing.T) {
	m := New(func(d *Definition) {
		d.Collection("users")
		d.Collection("users", UseAdapter("archive"))
	})
	c, ok := m.Collection("users")
	require.True(t, ok)
	assert.Equal(t, "archive", c.AdapterName)
}

func TestLoadResolvesNamedAndDefault(t *testing.T) {
	m := New(func(d *Definition) {
		d.Collection("users")
		d.Collection("events", UseAdapter("eventlog"))
	})

	primary := buildAdapter(t, "memory", "primary")
	eventlog := buildAdapter(t, "memory", "eventlog")
	m.SetAdapters(map[string]adapters.Adapter{
		"primary":  primary,
		"eventlog": eventlog,
	}, primary)

	require.NoError(t, m.Load(context.Background()))
	assert.True(t, m.Loaded())
	assert.NotEmpty(t, m.Generation())

	users, ok := m.Collection("users")
	require.True(t, ok)
	assert.Same(t, primary, users.Adapter())

	events, ok := m.Collection("events")
	require.True(t, ok)
	assert.Same(t, eventlog, events.Adapter())
}

func TestLoadFailsOnUnknownAdapterName(t *testing.T) {
	m := New(func(d *Definition) {
		d.Collection("events", UseAdapter("nope"))
	})
	m.SetAdapters(map[string]adapters.Adapter{}, nil)

	err := m.Load(context.Background())
	require.Error(t, err)

	var unbound *UnboundCollectionError
	require.True(t, errors.As(err, &unbound))
	assert.Equal(t, "events", unbound.Collection)
	assert.Equal(t, "nope", unbound.Adapter)
}

func TestLoadFailsWithoutDefault(t *testing.T) {
	m := New(func(d *Definition) {
		d.Collection("users")
	})
	other := buildAdapter(t, "memory", "other")
	m.SetAdapters(map[string]adapters.Adapter{"other": other}, nil)

	err := m.Load(context.Background())
	require.Error(t, err)

	var unbound *UnboundCollectionError
	require.True(t, errors.As(err, &unbound))
	assert.Equal(t, "users", unbound.Collection)
	assert.Empty(t, unbound.Adapter)
	assert.False(t, m.Loaded())
}

func TestReloadPicksUpNewAdapterSet(t *testing.T) {
	m := New(func(d *Definition) {
		d.Collection("users")
	})

	first := buildAdapter(t, "memory", "first")
	m.SetAdapters(map[string]adapters.Adapter{"first": first}, first)
	require.NoError(t, m.Load(context.Background()))
	gen := m.Generation()

	second := buildAdapter(t, "memory", "second")
	m.SetAdapters(map[string]adapters.Adapter{"second": second}, second)
	require.NoError(t, m.Load(context.Background()))

	users, _ := m.Collection("users")
	assert.Same(t, second, users.Adapter())
	assert.NotEqual(t, gen, m.Generation())
}

func TestEmptyMappingLoads(t *testing.T) {
	m := New(func(d *Definition) {})
	m.SetAdapters(nil, nil)
	require.NoError(t, m.Load(context.Background()))
	assert.True(t, m.Loaded())
}
