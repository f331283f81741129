package domain

import "fmt"

// Category is the terminal classification of a corpus path.
type Category string

const (
	// CategoryStudy is instructor-provided learning material that students
	// read, watch, or review: lectures, slides, readings, discussion sheets.
	CategoryStudy Category = "study"

	// CategoryPractice is work students do or produce: homework, labs,
	// projects, and exam solutions/walkthroughs.
	CategoryPractice Category = "practice"

	// CategorySupport is global course support: syllabus, past exams,
	// textbooks, tools and how-to documents.
	CategorySupport Category = "support"

	// CategorySkip is content with no pedagogical value that should not be
	// reorganised: build artifacts, caches, generated files.
	CategorySkip Category = "skip"
)

// Categories lists all valid categories in report order.
var Categories = []Category{CategoryStudy, CategoryPractice, CategorySupport, CategorySkip}

// ParseCategory validates a raw category string, typically from an oracle
// response or a persisted record.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryStudy, CategoryPractice, CategorySupport, CategorySkip:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// IsValid returns true if the category is one of the four known values.
func (c Category) IsValid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// DecisionSource records how a classification was authored.
type DecisionSource string

const (
	// SourceFolderInherited marks a file classification derived from an
	// ancestor folder decision without its own oracle call.
	SourceFolderInherited DecisionSource = "folder-inherited"

	// SourceFolderIndividual marks a decision authored for a directory by a
	// folder-level oracle call.
	SourceFolderIndividual DecisionSource = "folder-individual"

	// SourceFileIndividual marks a decision authored for a single file by a
	// per-file oracle call.
	SourceFileIndividual DecisionSource = "file-individual"
)

// ParseDecisionSource validates a raw source string from a persisted record.
func ParseDecisionSource(s string) (DecisionSource, error) {
	switch DecisionSource(s) {
	case SourceFolderInherited, SourceFolderIndividual, SourceFileIndividual:
		return DecisionSource(s), nil
	}
	return "", fmt.Errorf("%w: unknown decision source %q", ErrInvalidInput, s)
}
