package domain

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// metadataExts are extensions ignored by the homogeneity check unless they
// are the only file types present.
var metadataExts = map[string]struct{}{
	".yaml": {}, ".yml": {}, ".json": {}, ".md": {},
	".txt": {}, ".toml": {}, ".ini": {},
}

// Pattern is a naming pattern detected among a directory's subfolders,
// included in the oracle summary as a structural hint.
type Pattern struct {
	// Type is the pattern kind: "paired", "sequential", or "exam-types".
	Type string

	// Description is a human-readable summary of the pattern.
	Description string

	// Examples are sample names showing the pattern.
	Examples []string
}

// FolderStats are structural statistics for one directory, computed locally
// without oracle involvement and used to bound the oracle call payload.
type FolderStats struct {
	TotalFiles      int
	ImmediateFiles  int
	SubfolderCount  int
	SubfolderNames  []string
	ExtensionCounts map[string]int
	Homogeneous     bool
	PrimaryExts     []string
	Patterns        []Pattern
}

// ComputeFolderStats derives structural statistics for a directory node.
func ComputeFolderStats(n *Node) FolderStats {
	files := n.DescendantFiles()

	extCounts := make(map[string]int)
	for _, f := range files {
		ext := strings.ToLower(path.Ext(f.Name))
		if ext == "" {
			ext = "(no ext)"
		}
		extCounts[ext]++
	}

	type extCount struct {
		ext   string
		count int
	}
	sorted := make([]extCount, 0, len(extCounts))
	for e, c := range extCounts {
		sorted = append(sorted, extCount{e, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].ext < sorted[j].ext
	})
	primary := make([]string, 0, 3)
	for _, ec := range sorted {
		if len(primary) == 3 {
			break
		}
		primary = append(primary, ec.ext)
	}

	content := 0
	for e := range extCounts {
		if _, meta := metadataExts[e]; !meta {
			content++
		}
	}

	subfolders := n.ChildDirs()
	names := make([]string, 0, len(subfolders))
	for _, d := range subfolders {
		names = append(names, d.Name)
	}

	return FolderStats{
		TotalFiles:      len(files),
		ImmediateFiles:  len(n.ChildFiles()),
		SubfolderCount:  len(subfolders),
		SubfolderNames:  names,
		ExtensionCounts: extCounts,
		Homogeneous:     content <= 1,
		PrimaryExts:     primary,
		Patterns:        detectPatterns(n),
	}
}

var sequentialName = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

var (
	solutionPrefixes = []string{"sol-", "sol_", "solution-", "solution_", "solutions-", "solutions_"}
	solutionSuffixes = []string{"-sol", "_sol", "-solution", "_solution", "-solutions", "_solutions"}
)

var examNames = map[string]struct{}{
	"mt1": {}, "mt2": {}, "mt3": {},
	"midterm": {}, "final": {}, "diagnostic": {}, "practice": {},
}

// detectPatterns finds paired assignment/solution folders anywhere in the
// subtree, plus sequential and exam-type names among immediate subfolders.
func detectPatterns(n *Node) []Pattern {
	var patterns []Pattern

	pairedCount := 0
	var pairedExamples []string
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		names := make(map[string]struct{})
		dirs := cur.ChildDirs()
		for _, d := range dirs {
			names[d.Name] = struct{}{}
		}
		for _, d := range dirs {
			low := strings.ToLower(d.Name)
			for _, pref := range solutionPrefixes {
				if strings.HasPrefix(low, pref) {
					base := d.Name[len(pref):]
					if _, ok := names[base]; ok && base != "" {
						pairedCount++
						if len(pairedExamples) < 12 {
							pairedExamples = append(pairedExamples, base+" <-> "+d.Name)
						}
					}
				}
			}
			for _, suf := range solutionSuffixes {
				if strings.HasSuffix(low, suf) {
					base := d.Name[:len(d.Name)-len(suf)]
					if _, ok := names[base]; ok && base != "" {
						pairedCount++
						if len(pairedExamples) < 12 {
							pairedExamples = append(pairedExamples, base+" <-> "+d.Name)
						}
					}
				}
			}
			queue = append(queue, d)
		}
	}
	if pairedCount > 0 {
		sort.Strings(pairedExamples)
		patterns = append(patterns, Pattern{
			Type:        "paired",
			Description: fmt.Sprintf("assignment/solution subfolder pairing (%d matches)", pairedCount),
			Examples:    pairedExamples,
		})
	}

	// Sequential groups among immediate subfolders: disc01, disc02, ...
	groups := make(map[string][]int)
	for _, d := range n.ChildDirs() {
		m := sequentialName.FindStringSubmatch(d.Name)
		if m == nil {
			continue
		}
		var num int
		fmt.Sscanf(m[2], "%d", &num)
		groups[m[1]] = append(groups[m[1]], num)
	}
	prefixes := make([]string, 0, len(groups))
	for p := range groups {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, pref := range prefixes {
		nums := groups[pref]
		if len(nums) < 3 {
			continue
		}
		sort.Ints(nums)
		examples := make([]string, 0, 3)
		for _, x := range nums[:3] {
			examples = append(examples, fmt.Sprintf("%s%02d", pref, x))
		}
		patterns = append(patterns, Pattern{
			Type:        "sequential",
			Description: fmt.Sprintf("sequential folders for prefix %q (%d items)", pref, len(nums)),
			Examples:    examples,
		})
	}

	var exams []string
	for _, d := range n.ChildDirs() {
		if _, ok := examNames[strings.ToLower(d.Name)]; ok {
			exams = append(exams, d.Name)
		}
	}
	if len(exams) > 0 {
		sort.Strings(exams)
		patterns = append(patterns, Pattern{
			Type:        "exam-types",
			Description: "exam-type folders: " + strings.Join(exams, ", "),
			Examples:    exams,
		})
	}

	return patterns
}
