package services

import (
	"sort"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

// Resolution is the final category assignment for one file, computed from the
// authored decision set. Resolutions are derived on demand and never stored.
type Resolution struct {
	// Category is the file's resolved category.
	Category domain.Category

	// DecisionPath is the path whose authored decision governed: the file
	// itself, or its nearest accepted ancestor folder.
	DecisionPath string

	// Source records how the resolution was derived.
	Source domain.DecisionSource

	// Fallback is true when no authored decision covered the file and the
	// resolver defaulted to skip. A fallback signals an incomplete run.
	Fallback bool
}

// Resolver maps every file to its governing decision using most-specific-wins
// lookup over the authored decision set: the file's own decision if it has
// one, otherwise the nearest ancestor folder whose decision was accepted.
type Resolver struct {
	tree      *domain.Tree
	decisions map[string]domain.Decision
	policy    EscalationPolicy
}

// NewResolver creates a resolver over one run's tree and decision set.
func NewResolver(tree *domain.Tree, decisions map[string]domain.Decision, policy EscalationPolicy) *Resolver {
	return &Resolver{tree: tree, decisions: decisions, policy: policy}
}

// ResolveFile computes the final category for one file node. Two files under
// the same governing folder always resolve identically, and a deeper decision
// always beats a shallower one.
func (r *Resolver) ResolveFile(n *domain.Node) Resolution {
	if d, ok := r.decisions[n.Path]; ok {
		return Resolution{
			Category:     d.Category,
			DecisionPath: d.Path,
			Source:       domain.SourceFileIndividual,
		}
	}

	for _, ancestor := range r.tree.Ancestors(n) {
		d, ok := r.decisions[ancestor.Path]
		if !ok {
			continue
		}
		if !d.Accepted(r.policy.Threshold) {
			// An escalated folder never governs; its subtree was
			// refined by deeper decisions.
			continue
		}
		return Resolution{
			Category:     d.Category,
			DecisionPath: d.Path,
			Source:       domain.SourceFolderInherited,
		}
	}

	logger.Debug("no governing decision for %s, falling back to skip", n.Path)
	return Resolution{
		Category: domain.CategorySkip,
		Source:   domain.SourceFolderInherited,
		Fallback: true,
	}
}

// PromoteMixed upgrades ancestor folder decisions to mixed when a descendant
// authored decision disagrees with them on category. The promotion keeps
// inheritance honest: an ancestor that claims one category while a descendant
// was separately judged otherwise cannot be allowed to govern unrelated
// siblings silently. Returns the promoted paths, sorted.
func (r *Resolver) PromoteMixed() []string {
	promoted := make(map[string]struct{})

	for path, d := range r.decisions {
		node := r.tree.Node(path)
		if node == nil {
			continue
		}
		for _, ancestor := range r.tree.Ancestors(node) {
			ad, ok := r.decisions[ancestor.Path]
			if !ok || ad.Category == d.Category || ad.Mixed {
				continue
			}
			ad.Mixed = true
			r.decisions[ancestor.Path] = ad
			promoted[ancestor.Path] = struct{}{}
		}
	}

	out := make([]string, 0, len(promoted))
	for p := range promoted {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
