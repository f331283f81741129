package driven

import "context"

// DescriptionIndex provides per-file descriptions collected by the scraper,
// keyed by base filename. This is an optional service - when nil, the engine
// classifies from names and structure alone.
type DescriptionIndex interface {
	// Load returns the full filename -> description index. Missing or
	// unreadable backing data yields an empty index, not an error, since
	// descriptions only enrich classification.
	Load(ctx context.Context) (map[string]string, error)

	// Close releases resources.
	Close() error
}
