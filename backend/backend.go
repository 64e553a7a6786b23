// Package backend selects and constructs a catalog storage backend
// from configuration. It is the only package aware that both the local
// and the remote adapter exist; everything else depends on
// catalog.Store.
package backend

import (
	"context"
	"fmt"

	"github.com/svcat/svcat/catalog"
	"github.com/svcat/svcat/localstore"
	"github.com/svcat/svcat/miniostore"
)

// Backend type values for Config.Type.
const (
	TypeLocal  = "local"
	TypeRemote = "remote"
)

// Config selects one backend. Only the section matching Type is used.
type Config struct {
	Type   string
	Local  localstore.Config
	Remote miniostore.Config
}

// Open constructs exactly one adapter for cfg. Selection happens once;
// the returned Store never switches backends at runtime.
func Open(ctx context.Context, cfg Config) (catalog.Store, error) {
	switch cfg.Type {
	case TypeLocal:
		return localstore.New(cfg.Local)
	case TypeRemote:
		return miniostore.New(ctx, cfg.Remote)
	}
	return nil, fmt.Errorf("backend: unknown type %q", cfg.Type)
}
