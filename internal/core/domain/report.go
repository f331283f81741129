package domain

import "time"

// Report aggregates the statistics of one planning run for operators.
type Report struct {
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// FilesByCategory counts resolved files per category.
	FilesByCategory map[Category]int

	// FoldersDecided counts directories with an accepted folder-level
	// decision covering their subtree.
	FoldersDecided int

	// FoldersEscalated counts directories whose decision was refined by
	// per-child classification (mixed or low confidence).
	FoldersEscalated int

	// FilesViaFolder counts files whose category was inherited from an
	// ancestor folder decision.
	FilesViaFolder int

	// FilesIndividual counts files classified by their own oracle call.
	FilesIndividual int

	// OracleCalls is the total number of oracle calls issued, including
	// retries that ultimately succeeded (each counted once).
	OracleCalls int

	// CachedDecisions counts decisions reused from the store without a call.
	CachedDecisions int

	// MissingRecords are files present on disk that had no store record at
	// run start.
	MissingRecords int

	// StalePaths are store records whose path no longer exists on disk.
	// They are excluded from the destination mapping but never pruned by
	// the engine.
	StalePaths []string

	// Fallbacks are files routed to skip because no non-mixed decision was
	// found on their ancestor chain, pending manual review.
	Fallbacks []string

	// DegradedPaths are paths whose decision was degraded after oracle
	// failures exhausted the retry budget.
	DegradedPaths []string

	// Collisions counts destination paths that required a disambiguation
	// suffix.
	Collisions int
}

// NewReport creates an empty report with the category counters initialised.
func NewReport(startedAt time.Time) Report {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	return Report{StartedAt: startedAt, FilesByCategory: counts}
}

// TotalFiles returns the number of files resolved across all categories.
func (r Report) TotalFiles() int {
	total := 0
	for _, n := range r.FilesByCategory {
		total += n
	}
	return total
}
