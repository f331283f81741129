package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// --- Mock driven ports for planner testing ---

// mockCorpus implements driven.CorpusSource over a fixed entry list.
type mockCorpus struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func newMockCorpus(entries []domain.Entry) *mockCorpus {
	return &mockCorpus{entries: entries}
}

func (m *mockCorpus) Root() string { return "/corpus" }

func (m *mockCorpus) Scan(_ context.Context) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *mockCorpus) Watch(ctx context.Context) (<-chan driven.CorpusEvent, error) {
	ch := make(chan driven.CorpusEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *mockCorpus) Close() error { return nil }

// setFingerprint rewrites one entry's fingerprint, simulating an on-disk
// change between runs.
func (m *mockCorpus) setFingerprint(path, fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Path == path {
			m.entries[i].Fingerprint = fingerprint
		}
	}
}

// mockRecordStore implements driven.RecordStore in memory.
type mockRecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{records: make(map[string]domain.Record)}
}

func (m *mockRecordStore) Lookup(_ context.Context, path string) (*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	recCopy := rec
	return &recCopy, nil
}

func (m *mockRecordStore) Put(_ context.Context, record domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Path] = record
	return nil
}

func (m *mockRecordStore) All(_ context.Context) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRecordStore) StalePaths(_ context.Context, live map[string]struct{}) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stale []string
	for p := range m.records {
		if _, ok := live[p]; !ok {
			stale = append(stale, p)
		}
	}
	sort.Strings(stale)
	return stale, nil
}

func (m *mockRecordStore) Close() error { return nil }

func (m *mockRecordStore) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// mockDescriptions implements driven.DescriptionIndex over a fixed map.
type mockDescriptions struct {
	index map[string]string
}

func (m *mockDescriptions) Load(_ context.Context) (map[string]string, error) {
	return m.index, nil
}

func (m *mockDescriptions) Close() error { return nil }

// --- Fixture ---

// courseEntries models a small course corpus:
//
//	lecture/           uniform study, covered by one folder call
//	homework/          uniform practice
//	misc/              mixed, escalates to its children
//	misc/build/        confident skip, prunes its subtree
func courseEntries() []domain.Entry {
	return []domain.Entry{
		{Path: "lecture", Kind: domain.KindDirectory, Fingerprint: "dir-lec-1"},
		{Path: "lecture/week1.pdf", Kind: domain.KindFile, Fingerprint: "f-w1-1"},
		{Path: "lecture/week2.pdf", Kind: domain.KindFile, Fingerprint: "f-w2-1"},
		{Path: "homework", Kind: domain.KindDirectory, Fingerprint: "dir-hw-1"},
		{Path: "homework/hw1.pdf", Kind: domain.KindFile, Fingerprint: "f-hw1-1"},
		{Path: "homework/hw1-sol.pdf", Kind: domain.KindFile, Fingerprint: "f-hw1s-1"},
		{Path: "misc", Kind: domain.KindDirectory, Fingerprint: "dir-misc-1"},
		{Path: "misc/syllabus.pdf", Kind: domain.KindFile, Fingerprint: "f-syl-1"},
		{Path: "misc/build", Kind: domain.KindDirectory, Fingerprint: "dir-build-1"},
		{Path: "misc/build/out.o", Kind: domain.KindFile, Fingerprint: "f-out-1"},
	}
}

func courseOracle() *mockOracle {
	oracle := newMockOracle()
	oracle.verdicts["lecture"] = driven.Verdict{
		Category: domain.CategoryStudy, Confidence: 0.95, Description: "weekly lecture slides",
	}
	oracle.verdicts["homework"] = driven.Verdict{
		Category: domain.CategoryPractice, Confidence: 0.9, Description: "homework with solutions",
	}
	oracle.verdicts["misc"] = driven.Verdict{
		Category: domain.CategorySupport, Confidence: 0.9, Mixed: true, Description: "assorted course files",
	}
	oracle.verdicts["misc/syllabus.pdf"] = driven.Verdict{
		Category: domain.CategorySupport, Confidence: 0.9,
	}
	oracle.verdicts["misc/build"] = driven.Verdict{
		Category: domain.CategorySkip, Confidence: 0.95, Description: "build artifacts",
	}
	return oracle
}

func newCoursePlanner(oracle driven.Oracle, corpus driven.CorpusSource, store driven.RecordStore) *Planner {
	return NewPlanner(corpus, store, nil, newTestClassifier(oracle), NewEscalationPolicy(0.75), 2)
}

func mappingBySource(t *testing.T, plan *domain.Plan, source string) domain.Mapping {
	t.Helper()
	for _, m := range plan.Mappings {
		if m.SourcePath == source {
			return m
		}
	}
	t.Fatalf("no mapping for %s", source)
	return domain.Mapping{}
}

// --- Tests ---

func TestPlanClassifiesWithEscalation(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()
	planner := newCoursePlanner(oracle, corpus, store)

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)

	// One call per uniform top folder, one for the mixed folder, one per
	// escalated child. Files under accepted folders never hit the oracle.
	assert.Equal(t, 5, oracle.totalCalls())
	assert.Equal(t, 5, plan.Report.OracleCalls)
	assert.Equal(t, 0, oracle.callCount("lecture/week1.pdf"))
	assert.Equal(t, 0, oracle.callCount("misc/build/out.o"))

	assert.Equal(t, 3, plan.Report.FoldersDecided)
	assert.Equal(t, 1, plan.Report.FoldersEscalated)
	assert.Equal(t, 5, plan.Report.FilesViaFolder)
	assert.Equal(t, 1, plan.Report.FilesIndividual)
	assert.Equal(t, 6, plan.Report.MissingRecords)
	assert.Empty(t, plan.Report.Fallbacks)
	assert.Empty(t, plan.Report.DegradedPaths)

	assert.Equal(t, map[domain.Category]int{
		domain.CategoryStudy:    2,
		domain.CategoryPractice: 2,
		domain.CategorySupport:  1,
		domain.CategorySkip:     1,
	}, plan.Report.FilesByCategory)

	// Skipped files get no mapping; everything else keeps its structure
	// under the category root.
	require.Len(t, plan.Mappings, 5)
	assert.Equal(t, "study/lecture/week1.pdf", mappingBySource(t, plan, "lecture/week1.pdf").DestPath)
	assert.Equal(t, "practice/homework/hw1-sol.pdf", mappingBySource(t, plan, "homework/hw1-sol.pdf").DestPath)

	syllabus := mappingBySource(t, plan, "misc/syllabus.pdf")
	assert.Equal(t, "support/misc/syllabus.pdf", syllabus.DestPath)
	assert.Equal(t, "misc/syllabus.pdf", syllabus.DecisionPath)

	// Only authored decisions are persisted, never inherited files.
	assert.Equal(t, 5, store.len())
	_, err = store.Lookup(context.Background(), "lecture/week1.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanSecondRunIsFullyCached(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	first, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)
	callsAfterFirst := oracle.totalCalls()

	second, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, oracle.totalCalls(), "unchanged corpus must not hit the oracle")
	assert.Equal(t, 5, second.Report.CachedDecisions)
	// Files covered by folder decisions never get their own records, so
	// they stay counted as missing on every run.
	assert.Equal(t, 5, second.Report.MissingRecords)
	assert.Equal(t, first.Mappings, second.Mappings, "cached run must reproduce the plan")
}

func TestPlanReclassifiesOnlyChangedPaths(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	_, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	// The syllabus content changed; the directory fingerprints did not.
	corpus.setFingerprint("misc/syllabus.pdf", "f-syl-2")

	_, err = newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, oracle.callCount("misc/syllabus.pdf"), "changed file reclassified")
	assert.Equal(t, 1, oracle.callCount("misc"), "unchanged parent stays cached")
	assert.Equal(t, 1, oracle.callCount("lecture"))
}

func TestPlanReclassifiesFolderOnStructureChange(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	_, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	// A new file appeared under lecture, changing its child-set fingerprint.
	corpus.mu.Lock()
	corpus.entries = append(corpus.entries, domain.Entry{
		Path: "lecture/week3.pdf", Kind: domain.KindFile, Fingerprint: "f-w3-1",
	})
	corpus.mu.Unlock()
	corpus.setFingerprint("lecture", "dir-lec-2")

	plan, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, oracle.callCount("lecture"), "structural change reclassifies the folder")
	assert.Equal(t, 1, oracle.callCount("homework"))
	assert.Equal(t, "study/lecture/week3.pdf", mappingBySource(t, plan, "lecture/week3.pdf").DestPath)
}

func TestPlanReportsStaleRecords(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	_, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	// Simulate misc/syllabus.pdf vanishing from disk.
	corpus.mu.Lock()
	var kept []domain.Entry
	for _, e := range corpus.entries {
		if e.Path != "misc/syllabus.pdf" {
			kept = append(kept, e)
		}
	}
	corpus.entries = kept
	corpus.mu.Unlock()

	plan, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"misc/syllabus.pdf"}, plan.Report.StalePaths)
	// The stale record stays in the store for an external pruning decision.
	assert.Equal(t, 5, store.len())
	for _, m := range plan.Mappings {
		assert.NotEqual(t, "misc/syllabus.pdf", m.SourcePath)
	}
}

func TestPlanSurvivesOracleOutage(t *testing.T) {
	oracle := newMockOracle()
	oracle.down = true
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	classifier := newTestClassifier(oracle)
	classifier.maxAttempts = 1
	planner := NewPlanner(corpus, store, nil, classifier, NewEscalationPolicy(0.75), 2)

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err, "an outage degrades decisions, it does not fail the run")

	// Every folder degrades to mixed and escalates; every file degrades to
	// skip. Nothing is mapped and nothing is persisted.
	assert.Empty(t, plan.Mappings)
	assert.Equal(t, 6, plan.Report.FilesByCategory[domain.CategorySkip])
	assert.NotEmpty(t, plan.Report.DegradedPaths)
	assert.Zero(t, plan.Report.OracleCalls)
	assert.Zero(t, store.len(), "degraded decisions must not poison the store")
}

func TestPlanRecoversAfterOutage(t *testing.T) {
	oracle := courseOracle()
	oracle.down = true
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	classifier := newTestClassifier(oracle)
	classifier.maxAttempts = 1
	_, err := NewPlanner(corpus, store, nil, classifier, NewEscalationPolicy(0.75), 2).Plan(context.Background())
	require.NoError(t, err)

	// Oracle back up: the next run classifies everything from scratch.
	oracle.mu.Lock()
	oracle.down = false
	oracle.mu.Unlock()

	plan, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, oracle.totalCalls())
	assert.Len(t, plan.Mappings, 5)
	assert.Empty(t, plan.Report.DegradedPaths)
}

func TestPlanAttachesDescriptions(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()
	descriptions := &mockDescriptions{index: map[string]string{
		"syllabus.pdf": "Course syllabus and grading policy",
	}}

	planner := NewPlanner(corpus, store, descriptions, newTestClassifier(oracle), NewEscalationPolicy(0.75), 2)
	_, err := planner.Plan(context.Background())
	require.NoError(t, err)

	rec, err := store.Lookup(context.Background(), "misc/syllabus.pdf")
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySupport, rec.Category)
}

func TestPlanCancellationPreservesStore(t *testing.T) {
	oracle := courseOracle()
	corpus := newMockCorpus(courseEntries())
	store := newMockRecordStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCoursePlanner(oracle, corpus, store).Plan(ctx)
	require.Error(t, err)

	// A later run with a live context completes normally.
	plan, err := newCoursePlanner(oracle, corpus, store).Plan(context.Background())
	require.NoError(t, err)
	assert.Len(t, plan.Mappings, 5)
}

func TestPlannerStatusIdleAfterRun(t *testing.T) {
	oracle := courseOracle()
	planner := newCoursePlanner(oracle, newMockCorpus(courseEntries()), newMockRecordStore())

	_, err := planner.Plan(context.Background())
	require.NoError(t, err)

	status := planner.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 5, status.OracleCalls)
	assert.Equal(t, 4, status.FoldersClassified)
	assert.Equal(t, 1, status.FilesClassified)
}
