package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
)

// mockPlanner is a mock implementation of driving.Planner.
type mockPlanner struct {
	plan   *domain.Plan
	err    error
	status driving.RunStatus
	calls  int
}

func (m *mockPlanner) Plan(_ context.Context) (*domain.Plan, error) {
	m.calls++
	return m.plan, m.err
}

func (m *mockPlanner) Status() driving.RunStatus {
	return m.status
}

// mockRecords is a mock read-only record store.
type mockRecords struct {
	records map[string]domain.Record
	err     error
}

func (m *mockRecords) Lookup(_ context.Context, path string) (*domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return &rec, nil
}

func (m *mockRecords) Put(_ context.Context, record domain.Record) error {
	m.records[record.Path] = record
	return nil
}

func (m *mockRecords) All(_ context.Context) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRecords) StalePaths(_ context.Context, _ map[string]struct{}) ([]string, error) {
	return nil, nil
}

func (m *mockRecords) Close() error { return nil }
