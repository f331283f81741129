package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

const (
	// maxChildrenInQuery bounds the immediate-child summary sent per folder.
	maxChildrenInQuery = 30

	// maxFilesInQuery bounds the sampled descendant files sent per folder.
	maxFilesInQuery = 50

	// maxSiblingsInQuery bounds the sibling names sent per file.
	maxSiblingsInQuery = 20

	// maxAncestorDepth bounds the ancestor description context. Beyond this
	// depth the nearest ancestors are kept, the root-most dropped.
	maxAncestorDepth = 10

	// defaultMaxAttempts is how many times a single classification is tried
	// before the path is degraded.
	defaultMaxAttempts = 4

	// defaultBackoff is the initial delay between attempts; it doubles on
	// each retry.
	defaultBackoff = 500 * time.Millisecond
)

// Classifier wraps the oracle with retry, backoff and degradation so the rest
// of the engine never sees a transport error. Every call that exhausts its
// retries yields a degraded decision instead of failing the run: a folder
// degrades to a mixed support decision with confidence 0 (so resolution
// escalates past it), a file degrades to skip with confidence 0.
type Classifier struct {
	oracle      driven.Oracle
	maxAttempts int
	backoff     time.Duration

	mu       sync.Mutex
	calls    int
	degraded []string
}

// NewClassifier creates a classifier with default retry behaviour.
func NewClassifier(oracle driven.Oracle) *Classifier {
	return &Classifier{
		oracle:      oracle,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// Calls returns the number of oracle calls issued so far, including retries'
// final successes but counting each successful judgment once.
func (c *Classifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Degraded returns the paths whose classification fell back to a degraded
// decision after exhausting retries, in call-completion order.
func (c *Classifier) Degraded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.degraded))
	copy(out, c.degraded)
	return out
}

// ClassifyFolder judges one directory. The returned bool is true when the
// decision is degraded. The only returned error is ctx cancellation.
func (c *Classifier) ClassifyFolder(ctx context.Context, node *domain.Node, stats domain.FolderStats, ancestors []string) (domain.Decision, bool, error) {
	query := c.buildFolderQuery(node, stats, ancestors)

	verdict, err := c.withRetries(ctx, node.Path, func(ctx context.Context) (driven.Verdict, error) {
		return c.oracle.ClassifyFolder(ctx, query)
	})
	if err != nil {
		if ctx.Err() != nil {
			return domain.Decision{}, false, ctx.Err()
		}
		logger.Debug("degrading folder %s after failed classification: %v", node.Path, err)
		c.markDegraded(node.Path)
		return domain.Decision{
			Path:       node.Path,
			Category:   domain.CategorySupport,
			Confidence: 0,
			Mixed:      true,
			Reason:     fmt.Sprintf("classification unavailable: %v", err),
			Source:     domain.SourceFolderIndividual,
		}, true, nil
	}

	return decisionFromVerdict(node.Path, verdict, domain.SourceFolderIndividual, true), false, nil
}

// ClassifyFile judges one file individually. The returned bool is true when
// the decision is degraded. The only returned error is ctx cancellation.
func (c *Classifier) ClassifyFile(ctx context.Context, node *domain.Node, ancestors []string) (domain.Decision, bool, error) {
	query := c.buildFileQuery(node, ancestors)

	verdict, err := c.withRetries(ctx, node.Path, func(ctx context.Context) (driven.Verdict, error) {
		return c.oracle.ClassifyFile(ctx, query)
	})
	if err != nil {
		if ctx.Err() != nil {
			return domain.Decision{}, false, ctx.Err()
		}
		logger.Debug("degrading file %s after failed classification: %v", node.Path, err)
		c.markDegraded(node.Path)
		return domain.Decision{
			Path:       node.Path,
			Category:   domain.CategorySkip,
			Confidence: 0,
			Reason:     fmt.Sprintf("classification unavailable: %v", err),
			Source:     domain.SourceFileIndividual,
		}, true, nil
	}

	return decisionFromVerdict(node.Path, verdict, domain.SourceFileIndividual, false), false, nil
}

// withRetries runs one oracle call with exponential backoff. Every failure
// short of ctx cancellation is considered transient.
func (c *Classifier) withRetries(ctx context.Context, path string, call func(context.Context) (driven.Verdict, error)) (driven.Verdict, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return driven.Verdict{}, err
		}

		verdict, err := call(ctx)
		if err == nil {
			c.mu.Lock()
			c.calls++
			c.mu.Unlock()
			return verdict, nil
		}
		lastErr = err
		logger.Debug("oracle call for %s failed (attempt %d/%d): %v", path, attempt, c.maxAttempts, err)

		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return driven.Verdict{}, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return driven.Verdict{}, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, lastErr)
}

func (c *Classifier) markDegraded(path string) {
	c.mu.Lock()
	c.degraded = append(c.degraded, path)
	c.mu.Unlock()
}

func (c *Classifier) buildFolderQuery(node *domain.Node, stats domain.FolderStats, ancestors []string) driven.FolderQuery {
	children := node.Children()
	summaries := make([]driven.ChildSummary, 0, len(children))
	for _, child := range children {
		if len(summaries) == maxChildrenInQuery {
			break
		}
		summaries = append(summaries, driven.ChildSummary{
			Name:        child.Name,
			Kind:        child.Kind,
			Description: child.Description,
		})
	}

	var samples []driven.FileSample
	for _, f := range node.DescendantFiles() {
		if len(samples) == maxFilesInQuery {
			break
		}
		samples = append(samples, driven.FileSample{
			Name:        f.Name,
			Description: f.Description,
		})
	}

	return driven.FolderQuery{
		Path:      node.Path,
		Name:      node.Name,
		Stats:     stats,
		Children:  summaries,
		Files:     samples,
		Ancestors: capAncestors(ancestors),
	}
}

func (c *Classifier) buildFileQuery(node *domain.Node, ancestors []string) driven.FileQuery {
	var siblings []string
	if node.Parent != nil {
		for _, s := range node.Parent.ChildFiles() {
			if s.Path == node.Path {
				continue
			}
			if len(siblings) == maxSiblingsInQuery {
				break
			}
			siblings = append(siblings, s.Name)
		}
	}

	return driven.FileQuery{
		Path:        node.Path,
		Name:        node.Name,
		Description: node.Description,
		Siblings:    siblings,
		Ancestors:   capAncestors(ancestors),
	}
}

// capAncestors keeps the nearest maxAncestorDepth ancestor descriptions,
// preserving root-first order.
func capAncestors(ancestors []string) []string {
	if len(ancestors) <= maxAncestorDepth {
		return ancestors
	}
	return ancestors[len(ancestors)-maxAncestorDepth:]
}

// decisionFromVerdict normalises an oracle verdict into a decision: the
// category falls back to skip when unrecognised, confidence is clamped to
// [0,1] and file verdicts never carry the mixed flag.
func decisionFromVerdict(path string, v driven.Verdict, source domain.DecisionSource, folder bool) domain.Decision {
	category := v.Category
	if !category.IsValid() {
		category = domain.CategorySkip
	}

	confidence := v.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	mixed := v.Mixed
	if !folder {
		mixed = false
	}

	return domain.Decision{
		Path:         path,
		Category:     category,
		Confidence:   confidence,
		Mixed:        mixed,
		Description:  v.Description,
		Reason:       v.Reason,
		Source:       source,
		OracleCallID: uuid.NewString(),
	}
}
