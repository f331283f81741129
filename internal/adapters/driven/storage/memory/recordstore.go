package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore, used for
// ephemeral runs that must not touch the on-disk store.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.Record),
	}
}

// Lookup retrieves the record for a path.
func (s *RecordStore) Lookup(_ context.Context, path string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[path]
	if !ok {
		return nil, fmt.Errorf("%w: record for %s", domain.ErrNotFound, path)
	}
	recCopy := rec
	return &recCopy, nil
}

// Put stores or updates the record for its path.
func (s *RecordStore) Put(_ context.Context, record domain.Record) error {
	if record.Path == "" {
		return fmt.Errorf("%w: record path is empty", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Path] = record
	return nil
}

// All returns every record in no particular order.
func (s *RecordStore) All(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

// StalePaths returns the paths of records with no corresponding live entry.
func (s *RecordStore) StalePaths(_ context.Context, live map[string]struct{}) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stale []string
	for p := range s.records {
		if _, ok := live[p]; !ok {
			stale = append(stale, p)
		}
	}
	sort.Strings(stale)
	return stale, nil
}

// Close releases resources.
func (s *RecordStore) Close() error {
	return nil
}
