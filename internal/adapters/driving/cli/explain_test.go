package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

func TestExplainCmd_Use(t *testing.T) {
	assert.Equal(t, "explain <path>", explainCmd.Use)
}

func TestExplainCmd_RequiresPath(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"explain"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestExplainCmd_PrintsRecord(t *testing.T) {
	cleanup := setupTestRecords(domain.Record{
		Path:         "lecture",
		Kind:         domain.KindDirectory,
		Category:     domain.CategoryStudy,
		Confidence:   0.91,
		Description:  "Weekly lecture slides",
		Reason:       "Folder holds dated lecture decks",
		Source:       domain.SourceFolderIndividual,
		ClassifiedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"explain", "lecture"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "lecture (directory)")
	assert.Contains(t, buf.String(), "study")
	assert.Contains(t, buf.String(), "0.91")
	assert.Contains(t, buf.String(), "Folder holds dated lecture decks")
}

func TestExplainCmd_MissingRecord(t *testing.T) {
	cleanup := setupTestRecords()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"explain", "unknown/file.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No stored decision for unknown/file.pdf")
}
