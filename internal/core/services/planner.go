package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

// Ensure Planner implements the interface.
var _ driving.Planner = (*Planner)(nil)

// defaultParallelism caps concurrent oracle calls when no explicit limit is
// configured. The cap is run-wide, not per-folder, so a wide corpus cannot
// multiply in-flight calls.
const defaultParallelism = 4

// Planner coordinates a full planning run: scan, classify top-down with
// escalation, resolve every file and synthesise the destination mapping.
type Planner struct {
	corpus       driven.CorpusSource
	store        driven.RecordStore
	descriptions driven.DescriptionIndex
	classifier   *Classifier
	policy       EscalationPolicy
	parallelism  int

	// Status tracking
	mu     sync.RWMutex
	status driving.RunStatus
}

// NewPlanner creates a planner. The description index is optional; pass nil
// to classify from names and structure alone.
func NewPlanner(
	corpus driven.CorpusSource,
	store driven.RecordStore,
	descriptions driven.DescriptionIndex,
	classifier *Classifier,
	policy EscalationPolicy,
	parallelism int,
) *Planner {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Planner{
		corpus:       corpus,
		store:        store,
		descriptions: descriptions,
		classifier:   classifier,
		policy:       policy,
		parallelism:  parallelism,
	}
}

// classifyTask is one pending folder or file classification.
type classifyTask struct {
	node      *domain.Node
	ancestors []string
}

// classifyResult is the outcome of one task.
type classifyResult struct {
	decision domain.Decision
	cached   bool
	degraded bool
	err      error
}

// Plan runs the pipeline end to end. See driving.Planner for semantics.
func (p *Planner) Plan(ctx context.Context) (*domain.Plan, error) {
	if !p.begin() {
		return nil, domain.ErrRunInProgress
	}
	defer p.end()

	report := domain.NewReport(time.Now())

	// 1. Scan the corpus and build the path trie
	entries, err := p.corpus.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	tree, err := domain.BuildTree(entries)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	logger.Debug("scanned %d entries under %s", tree.Len(), p.corpus.Root())

	// 2. Attach per-file descriptions when an index is available
	p.attachDescriptions(ctx, tree)

	// 3. Load existing records and diff against the live tree
	cached, err := p.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range tree.Files() {
		if _, ok := cached[f.Path]; !ok {
			report.MissingRecords++
		}
	}
	stale, err := p.store.StalePaths(ctx, tree.LivePaths())
	if err != nil {
		return nil, fmt.Errorf("stale paths: %w", err)
	}
	report.StalePaths = stale

	// 4. Classify top-down, breadth-first, escalating weak folder decisions
	decisions, err := p.classifyAll(ctx, tree, cached, &report)
	if err != nil {
		// Completed decisions are already persisted; the store stays
		// valid and a later run resumes from it.
		return nil, err
	}

	// 5. Resolve every file and synthesise destinations
	resolver := NewResolver(tree, decisions, p.policy)
	if promoted := resolver.PromoteMixed(); len(promoted) > 0 {
		logger.Debug("promoted %d folder decisions to mixed", len(promoted))
	}

	resolved := make([]resolvedFile, 0, len(tree.Files()))
	for _, f := range tree.Files() {
		res := resolver.ResolveFile(f)
		report.FilesByCategory[res.Category]++
		switch {
		case res.Fallback:
			report.Fallbacks = append(report.Fallbacks, f.Path)
		case res.Source == domain.SourceFileIndividual:
			report.FilesIndividual++
		default:
			report.FilesViaFolder++
		}
		resolved = append(resolved, resolvedFile{node: f, resolution: res})
	}

	mappings, collisions := synthesiseMappings(resolved)
	report.Collisions = collisions
	report.OracleCalls = p.classifier.Calls()
	report.DegradedPaths = p.classifier.Degraded()
	report.FinishedAt = time.Now()

	return &domain.Plan{
		Mappings:  mappings,
		Decisions: decisions,
		Report:    report,
	}, nil
}

// Status returns progress for an in-flight run.
func (p *Planner) Status() driving.RunStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// begin marks a run as started; only one run may be in flight per planner.
func (p *Planner) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status.Running {
		return false
	}
	p.status = driving.RunStatus{Running: true}
	return true
}

func (p *Planner) end() {
	p.mu.Lock()
	p.status.Running = false
	p.mu.Unlock()
}

// attachDescriptions enriches file nodes with scraped descriptions, matched
// by base filename. Failures only cost classification context.
func (p *Planner) attachDescriptions(ctx context.Context, tree *domain.Tree) {
	if p.descriptions == nil {
		return
	}
	index, err := p.descriptions.Load(ctx)
	if err != nil {
		logger.Debug("description index unavailable: %v", err)
		return
	}
	if len(index) == 0 {
		return
	}
	attached := 0
	for _, f := range tree.Files() {
		if desc, ok := index[f.Name]; ok {
			f.Description = desc
			attached++
		}
	}
	logger.Debug("attached descriptions to %d of %d files", attached, len(tree.Files()))
}

func (p *Planner) loadRecords(ctx context.Context) (map[string]domain.Record, error) {
	records, err := p.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	cached := make(map[string]domain.Record, len(records))
	for _, r := range records {
		cached[r.Path] = r
	}
	return cached, nil
}

// classifyAll walks the tree in breadth-first waves. Each wave classifies
// concurrently under the run-wide parallelism cap, then escalation fans the
// next wave out from folders whose decision was mixed or under-confident.
// Waves are synchronous: a folder's decision always completes before any of
// its children are dispatched, so ancestor context is available and a
// confident decision prunes its whole subtree from the worklist.
func (p *Planner) classifyAll(ctx context.Context, tree *domain.Tree, cached map[string]domain.Record, report *domain.Report) (map[string]domain.Decision, error) {
	decisions := make(map[string]domain.Decision)

	var frontier []classifyTask
	for _, child := range tree.Root().Children() {
		frontier = append(frontier, classifyTask{node: child})
	}

	for len(frontier) > 0 {
		results := make([]classifyResult, len(frontier))
		g := new(errgroup.Group)
		g.SetLimit(p.parallelism)
		for i, task := range frontier {
			g.Go(func() error {
				results[i] = p.classifyOne(ctx, task, cached)
				return nil
			})
		}
		_ = g.Wait()

		var next []classifyTask
		for i, task := range frontier {
			res := results[i]
			if res.err != nil {
				return nil, res.err
			}
			decisions[res.decision.Path] = res.decision
			p.recordProgress(task.node.IsDir(), res)

			if !task.node.IsDir() {
				continue
			}
			if p.policy.NeedsEscalation(res.decision) {
				report.FoldersEscalated++
				ancestors := task.ancestors
				if res.decision.Description != "" {
					ancestors = append(append([]string{}, task.ancestors...), res.decision.Description)
				}
				for _, child := range task.node.Children() {
					next = append(next, classifyTask{node: child, ancestors: ancestors})
				}
			} else {
				report.FoldersDecided++
			}
		}
		frontier = next
	}

	report.CachedDecisions = p.countCached()
	return decisions, nil
}

// classifyOne answers one task from the store when the fingerprint still
// matches, otherwise pays for an oracle call and persists the result.
// Degraded decisions are not persisted: a run with the oracle down must not
// poison the store for the next run.
func (p *Planner) classifyOne(ctx context.Context, task classifyTask, cached map[string]domain.Record) classifyResult {
	if err := ctx.Err(); err != nil {
		return classifyResult{err: err}
	}
	node := task.node

	wantSource := domain.SourceFolderIndividual
	if !node.IsDir() {
		wantSource = domain.SourceFileIndividual
	}
	if rec, ok := cached[node.Path]; ok &&
		rec.Source == wantSource &&
		rec.Fingerprint != "" &&
		rec.Fingerprint == node.Fingerprint {
		return classifyResult{decision: rec.Decision(), cached: true}
	}

	var (
		decision domain.Decision
		degraded bool
		err      error
	)
	if node.IsDir() {
		stats := domain.ComputeFolderStats(node)
		decision, degraded, err = p.classifier.ClassifyFolder(ctx, node, stats, task.ancestors)
	} else {
		decision, degraded, err = p.classifier.ClassifyFile(ctx, node, task.ancestors)
	}
	if err != nil {
		return classifyResult{err: err}
	}

	if !degraded {
		record := domain.NewRecord(decision, node.Kind, node.Fingerprint, time.Now())
		if perr := p.store.Put(ctx, record); perr != nil {
			logger.Debug("persist record for %s: %v", node.Path, perr)
		}
	}
	return classifyResult{decision: decision, degraded: degraded}
}

func (p *Planner) recordProgress(isDir bool, res classifyResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if isDir {
		p.status.FoldersClassified++
	} else {
		p.status.FilesClassified++
	}
	if res.cached {
		p.status.CachedDecisions++
	}
	if res.degraded {
		p.status.Errors++
	}
	p.status.OracleCalls = p.classifier.Calls()
}

func (p *Planner) countCached() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status.CachedDecisions
}
