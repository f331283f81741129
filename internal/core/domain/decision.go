package domain

import "time"

// DefaultConfidenceThreshold is the minimum oracle confidence required to
// accept a folder decision without escalating to per-child classification.
const DefaultConfidenceThreshold = 0.75

// Decision is a classification authored for one corpus path during a run.
// It is the transient view combining a fresh or cached record with live tree
// structure; it does not outlive the run. At most one Decision is authored
// directly per path — file categories derived purely by resolution are never
// stored as decisions.
type Decision struct {
	// Path is the corpus-relative path the decision was authored for.
	Path string

	// Category is the decided category.
	Category Category

	// Confidence is the oracle's self-reported certainty in [0,1].
	// Degraded decisions (oracle outage) carry confidence 0.
	Confidence float64

	// Mixed signals that a directory's contents do not share one clear
	// category. Always false for file-level decisions.
	Mixed bool

	// Description is a one-sentence summary of the path's pedagogical
	// purpose, reused as ancestor context when classifying descendants.
	Description string

	// Reason is the oracle's reasoning for the decision.
	Reason string

	// Source records how the decision was authored.
	Source DecisionSource

	// OracleCallID identifies the oracle call that produced this decision.
	// Empty when the decision was inherited or degraded without a call.
	OracleCallID string
}

// Accepted reports whether a folder decision is trustworthy enough to be
// inherited by all descendants: confident and not mixed.
func (d Decision) Accepted(threshold float64) bool {
	return !d.Mixed && d.Confidence >= threshold
}

// Record is the durable form of a Decision plus the content fingerprint used
// to detect whether the underlying path changed since it was classified.
// Records are never auto-deleted: entries whose path no longer exists on disk
// are reported as stale and left for an external pruning decision.
type Record struct {
	Path         string
	Kind         EntryKind
	Category     Category
	Confidence   float64
	Mixed        bool
	Description  string
	Reason       string
	Source       DecisionSource
	OracleCallID string

	// Fingerprint is a cheap content/metadata signature: size+mtime for
	// files, a digest of immediate child names and kinds for directories.
	Fingerprint string

	// ClassifiedAt is when the record was created or last updated.
	ClassifiedAt time.Time
}

// Decision converts a record back into the transient decision view.
func (r Record) Decision() Decision {
	return Decision{
		Path:         r.Path,
		Category:     r.Category,
		Confidence:   r.Confidence,
		Mixed:        r.Mixed,
		Description:  r.Description,
		Reason:       r.Reason,
		Source:       r.Source,
		OracleCallID: r.OracleCallID,
	}
}

// NewRecord builds the durable form of a decision for the given fingerprint.
func NewRecord(d Decision, kind EntryKind, fingerprint string, now time.Time) Record {
	return Record{
		Path:         d.Path,
		Kind:         kind,
		Category:     d.Category,
		Confidence:   d.Confidence,
		Mixed:        d.Mixed,
		Description:  d.Description,
		Reason:       d.Reason,
		Source:       d.Source,
		OracleCallID: d.OracleCallID,
		Fingerprint:  fingerprint,
		ClassifiedAt: now,
	}
}
