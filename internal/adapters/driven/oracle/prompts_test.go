package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

func TestBuildFolderPrompt(t *testing.T) {
	prompt := BuildFolderPrompt(driven.FolderQuery{
		Path: "cs101/discussion",
		Name: "discussion",
		Stats: domain.FolderStats{
			TotalFiles:     24,
			ImmediateFiles: 0,
			SubfolderCount: 12,
			SubfolderNames: []string{"disc01", "disc02", "disc03"},
			Homogeneous:    true,
			PrimaryExts:    []string{".pdf"},
			Patterns: []domain.Pattern{
				{Type: "sequential", Description: `sequential folders for prefix "disc" (12 items)`},
			},
		},
		Children: []driven.ChildSummary{
			{Name: "disc01", Kind: domain.KindDirectory},
		},
		Files: []driven.FileSample{
			{Name: "disc01.pdf", Description: "Worksheet on recursion"},
			{Name: "disc02.pdf"},
		},
		Ancestors: []string{"Intro CS course materials"},
	})

	assert.Contains(t, prompt, "Folder: cs101/discussion")
	assert.Contains(t, prompt, "Ancestor context (root -> parent):")
	assert.Contains(t, prompt, "  [0] Intro CS course materials")
	assert.Contains(t, prompt, "TotalFiles: 24")
	assert.Contains(t, prompt, "FileTypesHomogeneous: yes")
	assert.Contains(t, prompt, "PrimaryFileTypes: .pdf")
	assert.Contains(t, prompt, `sequential folders for prefix "disc"`)
	assert.Contains(t, prompt, "disc01.pdf :: Worksheet on recursion")
	assert.Contains(t, prompt, "disc02.pdf :: [no description]")
	assert.Contains(t, prompt, "Write reason FIRST")
}

func TestBuildFilePrompt(t *testing.T) {
	prompt := BuildFilePrompt(driven.FileQuery{
		Path:        "hw/hw1.pdf",
		Name:        "hw1.pdf",
		Description: "Problem set 1\ncovering induction",
		Siblings:    []string{"hw2.pdf", "hw3.pdf"},
	})

	assert.Contains(t, prompt, "File: hw/hw1.pdf")
	assert.Contains(t, prompt, "Extension: .pdf")
	assert.Contains(t, prompt, "Description: Problem set 1 covering induction")
	assert.Contains(t, prompt, "  - hw2.pdf")
	assert.NotContains(t, prompt, "Ancestor context")
}

func TestBuildFilePromptWithoutDescription(t *testing.T) {
	prompt := BuildFilePrompt(driven.FileQuery{Path: "notes", Name: "notes"})
	assert.Contains(t, prompt, "Description: [none available]")
	assert.NotContains(t, prompt, "Extension:")
}
