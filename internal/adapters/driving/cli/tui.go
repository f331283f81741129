package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driving/tui"
)

var (
	tuiDescriptionsDB string
	tuiEphemeral      bool
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [corpus-root]",
	Short: "Run a planning run with a live progress view",
	Long: `Runs classification and planning with an interactive progress display
and a styled summary of the resulting plan.

Controls:
  q/Esc - Cancel / Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiDescriptionsDB, "descriptions", "", "path to the scraper metadata database")
	tuiCmd.Flags().BoolVar(&tuiEphemeral, "ephemeral", false, "keep decisions in memory instead of the record store")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	opts := runtimeOptions{
		descriptionsDB: tuiDescriptionsDB,
		ephemeral:      tuiEphemeral,
	}
	if len(args) > 0 {
		opts.root = args[0]
	}

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	app, err := tui.NewApp(&tui.Ports{Planner: rt.planner})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
