package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Lookup retrieves the record for a path.
func (r *recordStore) Lookup(ctx context.Context, path string) (*domain.Record, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT path, kind, category, confidence, mixed, description, reason,
		       source, oracle_call_id, fingerprint, classified_at
		FROM records WHERE path = ?
	`, path)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: record for %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup record: %w", err)
	}
	return rec, nil
}

// Put stores or updates the record for its path. SQLite serialises writers,
// giving the last-write-wins guarantee the port requires.
func (r *recordStore) Put(ctx context.Context, record domain.Record) error {
	if record.Path == "" {
		return fmt.Errorf("%w: record path is empty", domain.ErrInvalidInput)
	}
	if !record.Category.IsValid() {
		return fmt.Errorf("%w: record category %q", domain.ErrInvalidInput, record.Category)
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO records (path, kind, category, confidence, mixed, description,
		                     reason, source, oracle_call_id, fingerprint, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			category = excluded.category,
			confidence = excluded.confidence,
			mixed = excluded.mixed,
			description = excluded.description,
			reason = excluded.reason,
			source = excluded.source,
			oracle_call_id = excluded.oracle_call_id,
			fingerprint = excluded.fingerprint,
			classified_at = excluded.classified_at
	`,
		record.Path,
		string(record.Kind),
		string(record.Category),
		record.Confidence,
		boolToInt(record.Mixed),
		record.Description,
		record.Reason,
		string(record.Source),
		record.OracleCallID,
		record.Fingerprint,
		record.ClassifiedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// All returns every record in no particular order.
func (r *recordStore) All(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT path, kind, category, confidence, mixed, description, reason,
		       source, oracle_call_id, fingerprint, classified_at
		FROM records
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// StalePaths returns the paths of records with no corresponding live entry.
func (r *recordStore) StalePaths(ctx context.Context, live map[string]struct{}) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT path FROM records`)
	if err != nil {
		return nil, fmt.Errorf("list record paths: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan record path: %w", err)
		}
		if _, ok := live[path]; !ok {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record paths: %w", err)
	}
	sort.Strings(stale)
	return stale, nil
}

// Close closes the underlying store.
func (r *recordStore) Close() error {
	return r.store.Close()
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec          domain.Record
		kind         string
		category     string
		mixed        int
		source       string
		classifiedAt string
	)
	err := row.Scan(
		&rec.Path, &kind, &category, &rec.Confidence, &mixed, &rec.Description,
		&rec.Reason, &source, &rec.OracleCallID, &rec.Fingerprint, &classifiedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedCategory, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}
	parsedSource, err := domain.ParseDecisionSource(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, classifiedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad classified_at %q", domain.ErrStoreCorrupt, classifiedAt)
	}

	rec.Kind = domain.EntryKind(kind)
	rec.Category = parsedCategory
	rec.Mixed = mixed != 0
	rec.Source = parsedSource
	rec.ClassifiedAt = ts
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
