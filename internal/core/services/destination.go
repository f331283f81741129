package services

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// destinationRoots maps each category to its destination root. Skip has no
// root: skipped files are never mapped.
var destinationRoots = map[domain.Category]string{
	domain.CategoryStudy:    "study/lecture",
	domain.CategoryPractice: "practice",
	domain.CategorySupport:  "support",
}

// buildDestination maps one corpus-relative source path to its destination
// path for the given category. The source structure is preserved under the
// category root so sibling files stay siblings. Study material is grouped
// under a shared lecture area; a source tree that already has a top-level
// "lecture" folder is merged into that area rather than nested again.
func buildDestination(source string, category domain.Category) string {
	root := destinationRoots[category]

	parts := strings.Split(source, "/")
	if category == domain.CategoryStudy && parts[0] == "lecture" {
		parts = parts[1:]
	}
	return path.Join(append([]string{root}, parts...)...)
}

// resolvedFile pairs a file node with its resolution for mapping synthesis.
type resolvedFile struct {
	node       *domain.Node
	resolution Resolution
}

// synthesiseMappings assigns every non-skip resolved file a collision-free
// destination. Candidates are processed in source-path order and collisions
// get a deterministic " (n)" suffix before the extension, so the same corpus
// and decision set always synthesise the same mapping regardless of
// classification concurrency. Returns the mappings sorted by source path and
// the number of collisions resolved.
func synthesiseMappings(resolved []resolvedFile) ([]domain.Mapping, int) {
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].node.Path < resolved[j].node.Path
	})

	used := make(map[string]struct{})
	mappings := make([]domain.Mapping, 0, len(resolved))
	collisions := 0

	for _, rf := range resolved {
		if rf.resolution.Category == domain.CategorySkip {
			continue
		}

		dest := buildDestination(rf.node.Path, rf.resolution.Category)
		suffixed := false
		if _, taken := used[dest]; taken {
			dest = nextFreeDestination(dest, used)
			suffixed = true
			collisions++
		}
		used[dest] = struct{}{}

		mappings = append(mappings, domain.Mapping{
			SourcePath:   rf.node.Path,
			Category:     rf.resolution.Category,
			DestPath:     dest,
			DecisionPath: rf.resolution.DecisionPath,
			Suffixed:     suffixed,
		})
	}

	return mappings, collisions
}

// nextFreeDestination finds the lowest-numbered suffixed variant of dest not
// yet taken: "name (1).ext", "name (2).ext" and so on.
func nextFreeDestination(dest string, used map[string]struct{}) string {
	ext := path.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
