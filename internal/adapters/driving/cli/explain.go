package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

var explainCmd = &cobra.Command{
	Use:   "explain <path>",
	Short: "Show the stored classification for a corpus path",
	Long: `Prints the cached classification record for a corpus-relative path:
the category, the model's confidence and its stated reasoning.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	records, cleanup, err := openRecordStore()
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := records.Lookup(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Printf("No stored decision for %s.\n", args[0])
		cmd.Println("Either it has never been classified or it inherits from an ancestor folder.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	cmd.Printf("Path:        %s (%s)\n", record.Path, record.Kind)
	cmd.Printf("Category:    %s\n", record.Category)
	cmd.Printf("Confidence:  %.2f", record.Confidence)
	if record.Mixed {
		cmd.Printf(" (mixed contents)")
	}
	cmd.Println()
	cmd.Printf("Decided by:  %s\n", record.Source)
	if record.Description != "" {
		cmd.Printf("Description: %s\n", record.Description)
	}
	if record.Reason != "" {
		cmd.Printf("Reason:      %s\n", record.Reason)
	}
	cmd.Printf("Classified:  %s\n", record.ClassifiedAt.Format("2006-01-02 15:04:05"))
	return nil
}
