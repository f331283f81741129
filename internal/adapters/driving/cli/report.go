package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

var (
	reportDescriptionsDB string
	reportEphemeral      bool
	reportOut            string
)

var reportCmd = &cobra.Command{
	Use:   "report [corpus-root]",
	Short: "Produce a Markdown report of the planned reorganisation",
	Long: `Runs a planning run and renders the result as a Markdown report:
run summary, folder decisions, the planned destination tree and the full
source-to-destination mapping.

Over an unchanged corpus every decision comes from the store, so this is
cheap to re-run after a plan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDescriptionsDB, "descriptions", "", "path to the scraper metadata database")
	reportCmd.Flags().BoolVar(&reportEphemeral, "ephemeral", false, "keep decisions in memory instead of the record store")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	opts := runtimeOptions{
		descriptionsDB: reportDescriptionsDB,
		ephemeral:      reportEphemeral,
	}
	if len(args) > 0 {
		opts.root = args[0]
	}

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	plan, err := rt.planner.Plan(cmd.Context())
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	markdown := renderMarkdownReport(rt.root, plan)
	if reportOut != "" {
		if err := os.WriteFile(reportOut, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		cmd.Printf("Report written to %s\n", reportOut)
		return nil
	}
	cmd.Print(markdown)
	return nil
}

// renderMarkdownReport renders a plan as a Markdown document: summary table,
// folder decisions, destination tree and mapping table.
func renderMarkdownReport(root string, plan *domain.Plan) string {
	var b strings.Builder
	report := plan.Report

	b.WriteString("# Reorganisation plan\n\n")
	b.WriteString(fmt.Sprintf("Corpus: `%s`\n\n", root))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| Planned moves | %d |\n", len(plan.Mappings)))
	for _, c := range domain.Categories {
		b.WriteString(fmt.Sprintf("| Files: %s | %d |\n", c, report.FilesByCategory[c]))
	}
	b.WriteString(fmt.Sprintf("| Folders decided | %d |\n", report.FoldersDecided))
	b.WriteString(fmt.Sprintf("| Folders escalated | %d |\n", report.FoldersEscalated))
	b.WriteString(fmt.Sprintf("| Model calls | %d |\n", report.OracleCalls))
	b.WriteString(fmt.Sprintf("| Cached decisions | %d |\n", report.CachedDecisions))
	if report.Collisions > 0 {
		b.WriteString(fmt.Sprintf("| Renamed for collisions | %d |\n", report.Collisions))
	}
	b.WriteString("\n")

	if decisions := folderDecisions(plan); len(decisions) > 0 {
		b.WriteString("## Folder decisions\n\n")
		b.WriteString("| Folder | Category | Confidence | Description |\n|---|---|---|---|\n")
		for _, d := range decisions {
			category := string(d.Category)
			if d.Mixed {
				category += " (mixed)"
			}
			b.WriteString(fmt.Sprintf("| `%s` | %s | %.2f | %s |\n",
				d.Path, category, d.Confidence, d.Description))
		}
		b.WriteString("\n")
	}

	if len(plan.Mappings) > 0 {
		b.WriteString("## Destination tree\n\n```\n")
		b.WriteString(destinationTree(plan.Mappings))
		b.WriteString("```\n\n")

		b.WriteString("## Mappings\n\n")
		b.WriteString("| Source | Category | Destination |\n|---|---|---|\n")
		for _, m := range plan.Mappings {
			b.WriteString(fmt.Sprintf("| `%s` | %s | `%s` |\n", m.SourcePath, m.Category, m.DestPath))
		}
		b.WriteString("\n")
	}

	if len(report.Fallbacks) > 0 {
		b.WriteString("## Needs review\n\n")
		for _, path := range report.Fallbacks {
			b.WriteString(fmt.Sprintf("- `%s`\n", path))
		}
		b.WriteString("\n")
	}
	if len(report.StalePaths) > 0 {
		b.WriteString("## Stale records\n\n")
		for _, path := range report.StalePaths {
			b.WriteString(fmt.Sprintf("- `%s`\n", path))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// folderDecisions returns the authored directory decisions sorted by path.
func folderDecisions(plan *domain.Plan) []domain.Decision {
	var out []domain.Decision
	for _, d := range plan.Decisions {
		if d.Source == domain.SourceFolderIndividual {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// destinationTree renders the planned destination paths as an indented tree.
func destinationTree(mappings []domain.Mapping) string {
	children := make(map[string][]string)
	seen := make(map[string]bool)

	add := func(parent, child string) {
		key := parent + "\x00" + child
		if seen[key] {
			return
		}
		seen[key] = true
		children[parent] = append(children[parent], child)
	}

	for _, m := range mappings {
		parts := strings.Split(m.DestPath, "/")
		parent := ""
		for _, part := range parts {
			add(parent, part)
			if parent == "" {
				parent = part
			} else {
				parent = parent + "/" + part
			}
		}
	}

	var b strings.Builder
	var walk func(path string, depth int)
	walk = func(path string, depth int) {
		names := children[path]
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(name)
			full := name
			if path != "" {
				full = path + "/" + name
			}
			if len(children[full]) > 0 {
				b.WriteString("/")
			}
			b.WriteString("\n")
			walk(full, depth+1)
		}
	}
	walk("", 0)
	return b.String()
}
