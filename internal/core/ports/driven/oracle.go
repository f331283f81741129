package driven

import (
	"context"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// Oracle is the external judgment service that classifies folders and files.
// It is expensive, rate-limited and unreliable; all engine logic downstream
// of a call must be pure given its response. Implementations may include:
//   - OpenAI (chat completions with strict JSON output)
//   - Anthropic (Claude)
//
// The engine gives the oracle only a bounded summary of a path's contents,
// never a full recursive listing, so the call payload is independent of
// corpus depth.
type Oracle interface {
	// ClassifyFolder judges one directory from its bounded summary.
	ClassifyFolder(ctx context.Context, query FolderQuery) (Verdict, error)

	// ClassifyFile judges one file from its name, description and context.
	ClassifyFile(ctx context.Context, query FileQuery) (Verdict, error)

	// ModelName returns the name of the underlying model.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChildSummary is one immediate child in a folder query.
type ChildSummary struct {
	// Name is the child's base name.
	Name string

	// Kind is file or directory.
	Kind domain.EntryKind

	// Description is the child's short description, empty when unknown.
	Description string
}

// FileSample is one sampled descendant file in a folder query.
type FileSample struct {
	// Name is the file's base name.
	Name string

	// Description is the file's description from the metadata index.
	Description string
}

// FolderQuery is the bounded request for classifying one directory.
type FolderQuery struct {
	// Path is the corpus-relative directory path.
	Path string

	// Name is the directory's base name.
	Name string

	// Stats are the locally computed structural statistics.
	Stats domain.FolderStats

	// Children summarises the immediate children, bounded by the caller.
	Children []ChildSummary

	// Files samples descendant files with descriptions, bounded by the
	// caller (breadth-first order, so shallow files are preferred).
	Files []FileSample

	// Ancestors are accepted ancestor folder descriptions, root first,
	// giving the oracle hierarchical context.
	Ancestors []string
}

// FileQuery is the request for classifying one file individually.
type FileQuery struct {
	// Path is the corpus-relative file path.
	Path string

	// Name is the file's base name.
	Name string

	// Description is the file's description from the metadata index,
	// empty when none is known.
	Description string

	// Siblings are the names of other files in the same directory. Files
	// sharing a naming convention usually share a category.
	Siblings []string

	// Ancestors are accepted ancestor folder descriptions, root first.
	Ancestors []string
}

// Verdict is the oracle's judgment for one folder or file.
type Verdict struct {
	// Category is the decided category.
	Category domain.Category

	// Confidence is the oracle's self-reported certainty in [0,1].
	Confidence float64

	// Mixed signals materially different content categories within a
	// directory. Always false for file verdicts.
	Mixed bool

	// Description is a one-sentence summary of the path's purpose.
	Description string

	// Reason is the oracle's reasoning, produced before the category.
	Reason string
}
