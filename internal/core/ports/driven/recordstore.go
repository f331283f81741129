package driven

import (
	"context"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// RecordStore persists classification records across runs.
//
// Guarantees required of implementations:
//   - Put is last-write-wins per path and serialised internally, so
//     concurrent classification workers need no external locking.
//   - Concurrent Puts for distinct paths do not interfere.
//   - A Lookup immediately after a Put for the same path observes the new
//     value (read-your-writes within a run).
//   - Records are never auto-deleted; pruning is an external decision.
//
// A store that fails to load cleanly must surface domain.ErrStoreCorrupt at
// open time: a run must not start on partially parsed state.
type RecordStore interface {
	// Lookup retrieves the record for a path.
	// Returns domain.ErrNotFound when the path has never been classified.
	Lookup(ctx context.Context, path string) (*domain.Record, error)

	// Put stores or updates the record for its path.
	Put(ctx context.Context, record domain.Record) error

	// All returns every record in no particular order.
	All(ctx context.Context) ([]domain.Record, error)

	// StalePaths returns the paths of records with no corresponding entry
	// in the live path set, sorted.
	StalePaths(ctx context.Context, live map[string]struct{}) ([]string, error)

	// Close releases resources.
	Close() error
}
