// Package snapshotcache keeps the last good snapshot per key so readers are
// never served a half-finished or failed run.
package snapshotcache

import (
	"context"
	"errors"

	"github.com/fastprodman/finrecon/internal/services/recon"
)

var ErrNotFound = errors.New("snapshot not found")

type Cache interface {
	Get(ctx context.Context, key string) (recon.Snapshot, error)
	Put(ctx context.Context, key string, snap recon.Snapshot) error
}
