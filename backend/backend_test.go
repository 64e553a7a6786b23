package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svcat/svcat/catalog"
	"github.com/svcat/svcat/localstore"
	"github.com/svcat/svcat/miniostore"
)

func TestOpenLocal(t *testing.T) {
	cfg := Config{
		Type: TypeLocal,
		Local: localstore.Config{
			Path: filepath.Join(t.TempDir(), "services.json"),
			Seed: []catalog.Record{{Name: "A", Category: "C1", Description: "D1"}},
		},
	}
	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &localstore.Store{}, store)

	recs, err := store.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestOpenRemoteIncompleteConfig(t *testing.T) {
	// config validation fails before any network access
	cfg := Config{
		Type:   TypeRemote,
		Remote: miniostore.Config{Endpoint: "localhost:9000"},
	}
	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
}

func TestOpenUnknownType(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "cloud"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown type")

	_, err = Open(context.Background(), Config{})
	require.Error(t, err)
}
