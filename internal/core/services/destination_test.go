package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

func TestBuildDestination(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		category domain.Category
		want     string
	}{
		{
			name:   "practice keeps source structure",
			source: "homework/hw1/hw1.pdf", category: domain.CategoryPractice,
			want: "practice/homework/hw1/hw1.pdf",
		},
		{
			name:   "support keeps source structure",
			source: "admin/syllabus.pdf", category: domain.CategorySupport,
			want: "support/admin/syllabus.pdf",
		},
		{
			name:   "study nests under the lecture area",
			source: "week1/slides.pdf", category: domain.CategoryStudy,
			want: "study/lecture/week1/slides.pdf",
		},
		{
			name:   "existing lecture top folder merges instead of nesting",
			source: "lecture/week1/slides.pdf", category: domain.CategoryStudy,
			want: "study/lecture/week1/slides.pdf",
		},
		{
			name:   "root-level file",
			source: "readme.txt", category: domain.CategorySupport,
			want: "support/readme.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDestination(tt.source, tt.category))
		})
	}
}

func destinationTestFiles(t *testing.T, entries []domain.Entry, categories map[string]domain.Category) []resolvedFile {
	t.Helper()
	tree, err := domain.BuildTree(entries)
	require.NoError(t, err)

	var resolved []resolvedFile
	for _, f := range tree.Files() {
		resolved = append(resolved, resolvedFile{
			node:       f,
			resolution: Resolution{Category: categories[f.Path], DecisionPath: f.Path},
		})
	}
	return resolved
}

func TestSynthesiseMappingsExcludesSkip(t *testing.T) {
	resolved := destinationTestFiles(t,
		[]domain.Entry{
			{Path: "hw/hw1.pdf", Kind: domain.KindFile},
			{Path: "build/out.o", Kind: domain.KindFile},
		},
		map[string]domain.Category{
			"hw/hw1.pdf":  domain.CategoryPractice,
			"build/out.o": domain.CategorySkip,
		},
	)

	mappings, collisions := synthesiseMappings(resolved)
	require.Len(t, mappings, 1)
	assert.Zero(t, collisions)
	assert.Equal(t, "hw/hw1.pdf", mappings[0].SourcePath)
	assert.Equal(t, "practice/hw/hw1.pdf", mappings[0].DestPath)
}

func TestSynthesiseMappingsResolvesCollisionsDeterministically(t *testing.T) {
	// Both sources land on study/lecture/week1/slides.pdf: one via the
	// lecture merge rule, one via plain nesting.
	entries := []domain.Entry{
		{Path: "lecture/week1/slides.pdf", Kind: domain.KindFile},
		{Path: "week1/slides.pdf", Kind: domain.KindFile},
	}
	categories := map[string]domain.Category{
		"lecture/week1/slides.pdf": domain.CategoryStudy,
		"week1/slides.pdf":         domain.CategoryStudy,
	}

	run := func() []domain.Mapping {
		mappings, collisions := synthesiseMappings(destinationTestFiles(t, entries, categories))
		assert.Equal(t, 1, collisions)
		return mappings
	}

	first := run()
	require.Len(t, first, 2)

	// Lexicographically smaller source path keeps the clean destination.
	assert.Equal(t, "lecture/week1/slides.pdf", first[0].SourcePath)
	assert.Equal(t, "study/lecture/week1/slides.pdf", first[0].DestPath)
	assert.False(t, first[0].Suffixed)

	assert.Equal(t, "week1/slides.pdf", first[1].SourcePath)
	assert.Equal(t, "study/lecture/week1/slides (1).pdf", first[1].DestPath)
	assert.True(t, first[1].Suffixed)

	// Re-synthesis from the same inputs yields the same mapping.
	assert.Equal(t, first, run())
}

func TestSynthesiseMappingsDestinationsAreUnique(t *testing.T) {
	entries := []domain.Entry{
		{Path: "a/x.pdf", Kind: domain.KindFile},
		{Path: "b/x.pdf", Kind: domain.KindFile},
		{Path: "c/x.pdf", Kind: domain.KindFile},
	}
	categories := map[string]domain.Category{
		"a/x.pdf": domain.CategorySupport,
		"b/x.pdf": domain.CategorySupport,
		"c/x.pdf": domain.CategorySupport,
	}

	mappings, collisions := synthesiseMappings(destinationTestFiles(t, entries, categories))
	assert.Zero(t, collisions)

	seen := make(map[string]struct{})
	for _, m := range mappings {
		_, dup := seen[m.DestPath]
		assert.False(t, dup, "duplicate destination %s", m.DestPath)
		seen[m.DestPath] = struct{}{}
	}
}

func TestNextFreeDestinationSkipsTaken(t *testing.T) {
	used := map[string]struct{}{
		"support/x.pdf":     {},
		"support/x (1).pdf": {},
	}
	assert.Equal(t, "support/x (2).pdf", nextFreeDestination("support/x.pdf", used))
}
