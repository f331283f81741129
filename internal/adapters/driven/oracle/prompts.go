package oracle

import (
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// FolderSystemPrompt instructs the model on folder classification. The reason
// field is demanded before the category so the model commits to its analysis
// before deciding.
const FolderSystemPrompt = `You are classifying course folders into four categories:
- practice: Students DO or PRODUCE work: homework (hw), labs, projects.
  This also includes exam solutions/explanations (e.g., midterm walkthroughs).
- study: Instructional learning content that students READ, WATCH, or REVIEW.
  This includes: lectures, lecture slides/notes/PDFs, readings, videos,
  discussion/section materials and folders containing lecture slides/PDFs/code.
- support: Global course support like syllabus, past exams, textbooks,
  tools/how-to docs.
- skip: Build artifacts, generated files, empty folders, or content with
  no pedagogical value that should not be reorganised.

Key distinction:
  'practice' = student-produced assignments (hw, lab, project).
  'study'    = instructor-provided learning material.
  Discussion worksheets are study material even when they contain problems,
  because they are part of the instructor-led section flow, not graded
  student submissions.

Rules:
1. You receive a description of a folder with its structure and file listings.
2. You may also receive ancestor descriptions providing hierarchical context.
3. Your primary goal is to assign ONE best category based on overall purpose.
4. Think top-down: classify the folder as a whole, not per-file.
5. CRITICAL: you MUST reason FIRST, then decide.
   Write a detailed 'reason' explaining what the folder contains, its
   educational purpose, and why it fits a particular category. Only AFTER
   writing the reason, fill in 'category' and 'confidence'. The reason must
   logically support the chosen category. DO NOT pick a category first and
   then justify it.
6. Set is_mixed=true if the folder contains a clear mix of categories
   (e.g., both homework and lecture slides). This signals that the engine
   should descend and classify children individually.
7. Write a brief one-sentence 'description' summarising the folder's
   pedagogical purpose. It becomes context for classifying children.

Respond with ONLY a JSON object:
{"reason": "...", "category": "practice|study|support|skip", "confidence": 0.0-1.0, "is_mixed": true|false, "description": "..."}`

// FileSystemPrompt instructs the model on single-file classification.
const FileSystemPrompt = `You are classifying a single course file into one of four categories:

- study: Learning materials that students READ, WATCH, or REVIEW.
  Includes: lecture slides, lecture notes/PDFs, readings, videos,
  discussion/section materials, supplement code files for demonstration
  (not for practising). These materials usually focus on specific
  course concepts.

- practice: Student-produced work and assignments.
  Includes: homework, labs, projects, exercises, lab sheets,
  quizzes, exam papers, Jupyter notebooks for assignments (.ipynb).

- support: Course logistics and supplementary resources.
  Includes: syllabus, calendar, tools/how-to docs, study guides,
  extracurricular readings, cheat sheets, past exams (when used
  as reference, not as active assignments).

- skip: Generated/irrelevant files with no pedagogical value.
  Includes: build artifacts, cache files, empty files, compiled
  binaries, package lock files.

Key distinctions:
  'practice' = student-produced assignments (hw, lab, project).
  'study'    = instructor-provided learning material.
  Discussion worksheets are study material even when they contain
  problems, because they are part of instructor-led section flow.

Rules:
1. You receive the file's name, path, description and ancestor context.
2. You may also receive a list of sibling files in the same directory.
   Files in the same folder with similar naming conventions usually
   belong to the same category; use this as a strong signal.
3. Reason FIRST about what this file is and its educational purpose.
4. Then decide on category and confidence.

Respond with ONLY a JSON object:
{"reason": "...", "category": "practice|study|support|skip", "confidence": 0.0-1.0, "description": "..."}`

// BuildFolderPrompt renders the user prompt for one folder query.
func BuildFolderPrompt(q driven.FolderQuery) string {
	var lines []string

	if len(q.Ancestors) > 0 {
		lines = append(lines, "Ancestor context (root -> parent):")
		for i, desc := range q.Ancestors {
			lines = append(lines, fmt.Sprintf("  [%d] %s", i, desc))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		fmt.Sprintf("Folder: %s", q.Path),
		fmt.Sprintf("Name: %s", q.Name),
		fmt.Sprintf("TotalFiles: %d", q.Stats.TotalFiles),
		fmt.Sprintf("ImmediateFiles: %d", q.Stats.ImmediateFiles),
		fmt.Sprintf("SubfolderCount: %d", q.Stats.SubfolderCount),
		fmt.Sprintf("HasSubfolders: %s", yesNo(q.Stats.SubfolderCount > 0)),
		fmt.Sprintf("FileTypesHomogeneous: %s", yesNo(q.Stats.Homogeneous)),
		fmt.Sprintf("PrimaryFileTypes: %s", orNA(strings.Join(q.Stats.PrimaryExts, ", "))),
	)

	if len(q.Stats.SubfolderNames) > 0 {
		lines = append(lines, "Subfolders (immediate):", "  "+strings.Join(q.Stats.SubfolderNames, ", "))
	}

	for _, p := range q.Stats.Patterns {
		lines = append(lines, fmt.Sprintf("Pattern: %s", p.Description))
	}

	if len(q.Children) > 0 {
		lines = append(lines, "\nImmediate children:")
		for _, c := range q.Children {
			entry := fmt.Sprintf("  - [%s] %s", c.Kind, c.Name)
			if c.Description != "" {
				entry += " :: " + flattenDescription(c.Description)
			}
			lines = append(lines, entry)
		}
	}

	if len(q.Files) > 0 {
		lines = append(lines, fmt.Sprintf("\nFiles (name + description, up to %d shown):", len(q.Files)))
		for _, f := range q.Files {
			desc := flattenDescription(f.Description)
			if desc == "" {
				desc = "[no description]"
			}
			lines = append(lines, fmt.Sprintf("  - %s :: %s", f.Name, desc))
		}
	}

	lines = append(lines, "\nClassify this folder. Write reason FIRST, then category and confidence.")
	return strings.Join(lines, "\n")
}

// BuildFilePrompt renders the user prompt for one file query.
func BuildFilePrompt(q driven.FileQuery) string {
	var lines []string

	if len(q.Ancestors) > 0 {
		lines = append(lines, "Ancestor context (root -> parent):")
		for i, desc := range q.Ancestors {
			lines = append(lines, fmt.Sprintf("  [%d] %s", i, desc))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		fmt.Sprintf("File: %s", q.Path),
		fmt.Sprintf("Name: %s", q.Name),
	)

	if ext := strings.ToLower(path.Ext(q.Name)); ext != "" {
		lines = append(lines, fmt.Sprintf("Extension: %s", ext))
	}

	if q.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", flattenDescription(q.Description)))
	} else {
		lines = append(lines, "Description: [none available]")
	}

	if len(q.Siblings) > 0 {
		lines = append(lines, fmt.Sprintf("\nSibling files in same directory (%d shown):", len(q.Siblings)))
		for _, name := range q.Siblings {
			lines = append(lines, "  - "+name)
		}
	}

	lines = append(lines, "\nClassify this file. Write reason FIRST, then category and confidence.")
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func flattenDescription(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
