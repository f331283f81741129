// Package sqlite reads the scraper's metadata database. The scraper stores
// one row per collected file in a `file` table; only the filename and
// description columns matter here.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.DescriptionIndex = (*Index)(nil)

// Index loads per-file descriptions from a scraper database.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens the scraper database read-only. A missing file is not an
// error: Load then returns an empty index, since descriptions only enrich
// classification.
func NewIndex(path string) (*Index, error) {
	if path == "" {
		return &Index{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		logger.Debug("description database %s not readable: %v", path, err)
		return &Index{path: path}, nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening description database: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// Load returns the filename -> description index. Rows without a usable
// filename or description are skipped; when a filename repeats, the longer
// description wins.
func (i *Index) Load(ctx context.Context) (map[string]string, error) {
	index := make(map[string]string)
	if i.db == nil {
		return index, nil
	}

	rows, err := i.db.QueryContext(ctx, `SELECT file_name, description FROM file`)
	if err != nil {
		// A reachable database without the expected table behaves like
		// an absent one.
		logger.Debug("description database %s unusable: %v", i.path, err)
		return index, nil
	}
	defer rows.Close()

	for rows.Next() {
		var name, description sql.NullString
		if err := rows.Scan(&name, &description); err != nil {
			return nil, fmt.Errorf("scan description row: %w", err)
		}
		if !name.Valid || name.String == "" || !description.Valid || description.String == "" {
			continue
		}
		if existing, ok := index[name.String]; ok && len(existing) >= len(description.String) {
			continue
		}
		index[name.String] = description.String
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate description rows: %w", err)
	}

	logger.Debug("loaded %d file descriptions from %s", len(index), i.path)
	return index, nil
}

// Close releases resources.
func (i *Index) Close() error {
	if i.db == nil {
		return nil
	}
	return i.db.Close()
}
