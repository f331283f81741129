package driving

import (
	"context"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// Planner coordinates a full classification and reorganisation-planning run.
type Planner interface {
	// Plan runs the pipeline end to end: scan the corpus, classify what the
	// store cannot answer, resolve every file to a category and synthesise
	// a collision-free destination mapping. Cancelling ctx stops new oracle
	// dispatches; completed decisions are still persisted, so a cancelled
	// run leaves a valid, resumable store.
	Plan(ctx context.Context) (*domain.Plan, error)

	// Status returns progress for an in-flight run.
	Status() RunStatus
}

// RunStatus is a snapshot of a planning run's progress.
type RunStatus struct {
	// Running indicates a run is currently in progress.
	Running bool

	// FoldersClassified counts folder decisions made so far.
	FoldersClassified int

	// FilesClassified counts per-file decisions made so far.
	FilesClassified int

	// OracleCalls counts oracle calls issued so far.
	OracleCalls int

	// CachedDecisions counts decisions answered from the store.
	CachedDecisions int

	// Errors counts degraded or failed per-path classifications.
	Errors int
}
