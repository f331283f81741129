package driven

import (
	"context"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// CorpusSource enumerates the read-only corpus tree. The engine never writes
// to source files.
type CorpusSource interface {
	// Root returns the absolute corpus root path.
	Root() string

	// Scan walks the corpus and returns every file and directory as
	// corpus-relative entries with fingerprints, excluded names pruned.
	Scan(ctx context.Context) ([]domain.Entry, error)

	// Watch emits an event when the corpus changes on disk, for re-planning
	// loops. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan CorpusEvent, error)

	// Close releases resources.
	Close() error
}

// CorpusEvent is one observed corpus change.
type CorpusEvent struct {
	// Path is the affected corpus-relative path.
	Path string

	// Op describes the change: "create", "write", "remove", "rename".
	Op string
}
