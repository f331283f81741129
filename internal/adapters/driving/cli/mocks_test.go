package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
)

// mockConfigStore is an in-memory driven.ConfigStore for command tests.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.data[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.data[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.data[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.data[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/coursa-test/config.toml"
}

// mockPlanner is a mock implementation of driving.Planner.
type mockPlanner struct {
	plan  *domain.Plan
	err   error
	calls int
}

func (m *mockPlanner) Plan(_ context.Context) (*domain.Plan, error) {
	m.calls++
	return m.plan, m.err
}

func (m *mockPlanner) Status() driving.RunStatus {
	return driving.RunStatus{}
}

// testPlan is a small finished plan for output assertions.
func testPlan() *domain.Plan {
	report := domain.NewReport(time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	report.FilesByCategory[domain.CategoryStudy] = 2
	report.FilesByCategory[domain.CategoryPractice] = 1
	report.FoldersDecided = 3
	report.FoldersEscalated = 1
	report.OracleCalls = 4
	report.CachedDecisions = 2

	return &domain.Plan{
		Mappings: []domain.Mapping{
			{SourcePath: "hw/hw1.pdf", Category: domain.CategoryPractice, DestPath: "practice/hw/hw1.pdf", DecisionPath: "hw"},
			{SourcePath: "lecture/week1.pdf", Category: domain.CategoryStudy, DestPath: "study/lecture/week1.pdf", DecisionPath: "lecture"},
			{SourcePath: "lecture/week2.pdf", Category: domain.CategoryStudy, DestPath: "study/lecture/week2.pdf", DecisionPath: "lecture"},
		},
		Report: report,
	}
}

// setupTestRuntime replaces runtime construction with a mock planner and an
// in-memory record store. Returns the planner and a cleanup function.
func setupTestRuntime(plan *domain.Plan, err error) (*mockPlanner, func()) {
	planner := &mockPlanner{plan: plan, err: err}
	records := memory.NewRecordStore()

	oldRuntime := newRuntime
	newRuntime = func(opts runtimeOptions) (*runtime, error) {
		return &runtime{
			planner: planner,
			records: records,
			root:    opts.root,
			close:   func() {},
		}, nil
	}
	return planner, func() {
		newRuntime = oldRuntime
	}
}

// setupTestRecords replaces the read-only store opener with an in-memory
// store preloaded with the given records.
func setupTestRecords(records ...domain.Record) func() {
	store := memory.NewRecordStore()
	for _, r := range records {
		_ = store.Put(context.Background(), r)
	}

	oldOpen := openRecordStore
	openRecordStore = func() (driven.RecordStore, func(), error) {
		return store, func() {}, nil
	}
	return func() {
		openRecordStore = oldOpen
	}
}
