package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

func reportTestPlan() *domain.Plan {
	plan := testPlan()
	plan.Decisions = map[string]domain.Decision{
		"lecture": {
			Path:        "lecture",
			Category:    domain.CategoryStudy,
			Confidence:  0.92,
			Description: "Weekly lecture slides",
			Source:      domain.SourceFolderIndividual,
		},
		"misc": {
			Path:       "misc",
			Category:   domain.CategorySupport,
			Confidence: 0.40,
			Mixed:      true,
			Source:     domain.SourceFolderIndividual,
		},
		"misc/syllabus.pdf": {
			Path:       "misc/syllabus.pdf",
			Category:   domain.CategorySupport,
			Confidence: 0.9,
			Source:     domain.SourceFileIndividual,
		},
	}
	return plan
}

func TestRenderMarkdownReport(t *testing.T) {
	got := renderMarkdownReport("/srv/cs101", reportTestPlan())

	assert.Contains(t, got, "# Reorganisation plan")
	assert.Contains(t, got, "Corpus: `/srv/cs101`")
	assert.Contains(t, got, "| Planned moves | 3 |")
	assert.Contains(t, got, "| Files: study | 2 |")
	assert.Contains(t, got, "| Folders decided | 3 |")

	// Folder decisions list directories only, sorted, mixed flagged.
	assert.Contains(t, got, "| `lecture` | study | 0.92 | Weekly lecture slides |")
	assert.Contains(t, got, "| `misc` | support (mixed) | 0.40 |")
	assert.NotContains(t, got, "`misc/syllabus.pdf` | support |")

	// Mapping table and destination tree.
	assert.Contains(t, got, "| `hw/hw1.pdf` | practice | `practice/hw/hw1.pdf` |")
	assert.Contains(t, got, "study/\n")
	assert.Contains(t, got, "    week1.pdf")
}

func TestDestinationTreeDeduplicates(t *testing.T) {
	tree := destinationTree([]domain.Mapping{
		{DestPath: "study/lecture/a.pdf"},
		{DestPath: "study/lecture/b.pdf"},
		{DestPath: "practice/hw/hw1.pdf"},
	})

	assert.Equal(t, "practice/\n  hw/\n    hw1.pdf\nstudy/\n  lecture/\n    a.pdf\n    b.pdf\n", tree)
}

func TestReportCmd_WritesFile(t *testing.T) {
	_, cleanup := setupTestRuntime(reportTestPlan(), nil)
	defer cleanup()

	out := filepath.Join(t.TempDir(), "report.md")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report", "/tmp/corpus", "--out", out})
	defer func() {
		rootCmd.SetArgs(nil)
		reportOut = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Reorganisation plan")
}

func TestReportCmd_PrintsToStdout(t *testing.T) {
	_, cleanup := setupTestRuntime(reportTestPlan(), nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report", "/tmp/corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "## Summary")
}
