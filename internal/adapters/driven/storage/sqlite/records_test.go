package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRecord(path string) domain.Record {
	return domain.Record{
		Path:         path,
		Kind:         domain.KindDirectory,
		Category:     domain.CategoryStudy,
		Confidence:   0.9,
		Description:  "weekly lecture slides",
		Reason:       "folder of per-week slide decks",
		Source:       domain.SourceFolderIndividual,
		OracleCallID: "call-1",
		Fingerprint:  "fp-1",
		ClassifiedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordStoreRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	want := testRecord("lecture")
	require.NoError(t, records.Put(ctx, want))

	got, err := records.Lookup(ctx, "lecture")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestRecordStoreLookupMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.RecordStore().Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStorePutIsLastWriteWins(t *testing.T) {
	store := setupTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	rec := testRecord("lecture")
	require.NoError(t, records.Put(ctx, rec))

	rec.Category = domain.CategorySupport
	rec.Mixed = true
	rec.Fingerprint = "fp-2"
	require.NoError(t, records.Put(ctx, rec))

	got, err := records.Lookup(ctx, "lecture")
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySupport, got.Category)
	assert.True(t, got.Mixed)
	assert.Equal(t, "fp-2", got.Fingerprint)

	all, err := records.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "update must not create a second row")
}

func TestRecordStoreValidatesInput(t *testing.T) {
	store := setupTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	rec := testRecord("")
	assert.ErrorIs(t, records.Put(ctx, rec), domain.ErrInvalidInput)

	rec = testRecord("x")
	rec.Category = "archive"
	assert.ErrorIs(t, records.Put(ctx, rec), domain.ErrInvalidInput)
}

func TestRecordStoreStalePaths(t *testing.T) {
	store := setupTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	for _, p := range []string{"lecture", "homework", "old/removed.pdf"} {
		rec := testRecord(p)
		require.NoError(t, records.Put(ctx, rec))
	}

	live := map[string]struct{}{
		"lecture":  {},
		"homework": {},
	}
	stale, err := records.StalePaths(ctx, live)
	require.NoError(t, err)
	assert.Equal(t, []string{"old/removed.pdf"}, stale)

	// Stale records are reported, never deleted.
	_, err = records.Lookup(ctx, "old/removed.pdf")
	assert.NoError(t, err)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RecordStore().Put(context.Background(), testRecord("lecture")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.RecordStore().Lookup(context.Background(), "lecture")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryStudy, got.Category)
}
