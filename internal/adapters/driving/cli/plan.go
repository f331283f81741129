package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

var (
	planDescriptionsDB string
	planThreshold      float64
	planParallel       int
	planEphemeral      bool
	planShowMappings   bool
	planJSON           bool
	planOut            string
	planWatch          bool
)

// watchSettle is how long the corpus must stay quiet after a change before
// re-planning, so bulk copies trigger one run instead of one per file.
const watchSettle = 2 * time.Second

var planCmd = &cobra.Command{
	Use:   "plan [corpus-root]",
	Short: "Classify the corpus and plan its reorganisation",
	Long: `Classifies every folder and file under the corpus root and plans a
reorganised layout under study/, practice/ and support/ roots.

Nothing is moved: the output is a mapping from current paths to planned
destinations. Decisions are cached, so re-running over an unchanged
corpus costs no further model calls.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDescriptionsDB, "descriptions", "", "path to the scraper metadata database")
	planCmd.Flags().Float64Var(&planThreshold, "threshold", 0, "confidence below which a folder decision escalates (default 0.75)")
	planCmd.Flags().IntVar(&planParallel, "parallel", 0, "maximum concurrent model calls (default 4)")
	planCmd.Flags().BoolVar(&planEphemeral, "ephemeral", false, "keep decisions in memory instead of the record store")
	planCmd.Flags().BoolVar(&planShowMappings, "mappings", false, "print every planned move")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "output the full plan as JSON")
	planCmd.Flags().StringVar(&planOut, "out", "", "write the full plan as JSON to a file")
	planCmd.Flags().BoolVar(&planWatch, "watch", false, "re-plan whenever the corpus changes on disk")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	opts := runtimeOptions{
		descriptionsDB: planDescriptionsDB,
		threshold:      planThreshold,
		parallelism:    planParallel,
		ephemeral:      planEphemeral,
	}
	if len(args) > 0 {
		opts.root = args[0]
	}

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := planOnce(cmd, rt); err != nil {
		return err
	}
	if planWatch {
		return watchAndReplan(cmd, rt)
	}
	return nil
}

func planOnce(cmd *cobra.Command, rt *runtime) error {
	plan, err := rt.planner.Plan(cmd.Context())
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if planOut != "" {
		if err := writePlanFile(planOut, plan); err != nil {
			return err
		}
		cmd.Printf("Plan written to %s\n", planOut)
	}

	if planJSON {
		return outputPlanJSON(cmd, plan)
	}
	outputPlanSummary(cmd, rt.root, plan)
	if planShowMappings {
		outputPlanMappings(cmd, plan)
	}
	return nil
}

// watchAndReplan blocks on corpus events and re-plans after each burst of
// changes settles. It returns when the context is cancelled.
func watchAndReplan(cmd *cobra.Command, rt *runtime) error {
	if rt.corpus == nil {
		return errors.New("watch mode needs a filesystem corpus")
	}

	ctx := cmd.Context()
	events, err := rt.corpus.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching corpus: %w", err)
	}
	cmd.Println("\nWatching for changes (ctrl+c to stop)...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("corpus change: %s %s", event.Op, event.Path)
		}

		// Let the burst settle, draining further events meanwhile.
	settle:
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-events:
				if !ok {
					return nil
				}
			case <-time.After(watchSettle):
				break settle
			}
		}

		cmd.Println()
		if err := planOnce(cmd, rt); err != nil {
			return err
		}
	}
}

func writePlanFile(path string, plan *domain.Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

func outputPlanJSON(cmd *cobra.Command, plan *domain.Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputPlanSummary(cmd *cobra.Command, root string, plan *domain.Plan) {
	report := plan.Report

	cmd.Printf("Planned reorganisation of %s\n", root)
	cmd.Println()
	cmd.Printf("  Files:       %d planned moves", len(plan.Mappings))
	if report.Collisions > 0 {
		cmd.Printf(" (%d renamed to avoid collisions)", report.Collisions)
	}
	cmd.Println()

	categories := make([]domain.Category, 0, len(report.FilesByCategory))
	for c := range report.FilesByCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		cmd.Printf("    %-9s %d\n", c.String()+":", report.FilesByCategory[c])
	}

	cmd.Println()
	cmd.Printf("  Folders:     %d decided, %d escalated\n", report.FoldersDecided, report.FoldersEscalated)
	cmd.Printf("  Model calls: %d (%d answered from cache)\n", report.OracleCalls, report.CachedDecisions)

	if len(report.DegradedPaths) > 0 {
		cmd.Printf("  Degraded:    %d paths defaulted after model failures\n", len(report.DegradedPaths))
	}
	if len(report.Fallbacks) > 0 {
		cmd.Printf("  Review:      %d files had no covering decision and were routed to skip\n", len(report.Fallbacks))
		for _, path := range report.Fallbacks {
			cmd.Printf("    %s\n", path)
		}
	}
	if len(report.StalePaths) > 0 {
		cmd.Printf("  Stale:       %d stored records no longer match a file on disk (run 'coursa stale')\n", len(report.StalePaths))
	}
}

func outputPlanMappings(cmd *cobra.Command, plan *domain.Plan) {
	cmd.Println()
	for _, m := range plan.Mappings {
		cmd.Printf("  %s -> %s\n", m.SourcePath, m.DestPath)
	}
}
