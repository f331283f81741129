package services

import "github.com/custodia-labs/coursa-cli/internal/core/domain"

// EscalationPolicy decides when a folder decision is too weak to be inherited
// by its subtree and the engine must pay for finer-grained classification.
type EscalationPolicy struct {
	// Threshold is the minimum confidence a non-mixed folder decision needs
	// to be accepted.
	Threshold float64
}

// NewEscalationPolicy creates a policy with the given confidence threshold.
// A zero or negative threshold falls back to the default.
func NewEscalationPolicy(threshold float64) EscalationPolicy {
	if threshold <= 0 {
		threshold = domain.DefaultConfidenceThreshold
	}
	return EscalationPolicy{Threshold: threshold}
}

// NeedsEscalation reports whether a folder decision must be refined by
// classifying its children. Mixed contents always escalate regardless of
// confidence; otherwise a decision below the threshold escalates. This is the
// single place where escalation is decided, so a confident uniform verdict at
// depth 1 covers its whole subtree with exactly one oracle call.
func (p EscalationPolicy) NeedsEscalation(d domain.Decision) bool {
	return !d.Accepted(p.Threshold)
}
