package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOracleUnavailable indicates the classification oracle could not be
	// reached or returned a malformed response. Retried with backoff; after
	// the retry budget is spent the decision degrades to a forced-escalation
	// low-confidence result. Never fatal to a run.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrOracleRateLimited indicates the oracle rejected a call for quota
	// reasons. Treated as retryable with the limiter's backoff applied.
	ErrOracleRateLimited = errors.New("oracle rate limited")

	// ErrStoreCorrupt indicates the classification store failed to load
	// cleanly. Fatal: a run must not proceed on a partially parsed store,
	// since stale or duplicate records would silently corrupt resolution.
	ErrStoreCorrupt = errors.New("classification store corrupt")

	// ErrResolverFallback indicates a file reached the corpus root without
	// any non-mixed ancestor decision. The file is routed to skip and
	// flagged for manual review; this signals an engine defect.
	ErrResolverFallback = errors.New("no non-mixed decision on ancestor chain")

	// ErrRunInProgress indicates a planning run is already active.
	ErrRunInProgress = errors.New("run in progress")
)
