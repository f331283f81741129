package domain

// Mapping is the planned destination for one classified file. The engine
// only plans; the physical move is performed by an external collaborator.
type Mapping struct {
	// SourcePath is the corpus-relative source path.
	SourcePath string

	// Category is the resolved category.
	Category Category

	// DestPath is the collision-free path under the category root,
	// corpus-relative with forward slashes.
	DestPath string

	// DecisionPath is the path of the decision that determined the
	// category: the file itself for per-file decisions, otherwise the
	// nearest accepted ancestor directory.
	DecisionPath string

	// Suffixed is true when a disambiguation counter was appended to
	// resolve a destination collision.
	Suffixed bool
}

// Plan is the complete output of one planning run.
type Plan struct {
	// Mappings are the planned moves keyed by source path, excluding files
	// resolved to skip.
	Mappings []Mapping

	// Decisions are every authored classification from the run, keyed by
	// corpus-relative path.
	Decisions map[string]Decision

	// Report aggregates run statistics.
	Report Report
}
