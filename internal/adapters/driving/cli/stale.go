package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/connectors/filesystem"
)

var staleCmd = &cobra.Command{
	Use:   "stale [corpus-root]",
	Short: "List stored records whose path no longer exists",
	Long: `Compares the record store against the corpus on disk and lists
records for paths that have been deleted or renamed.

Stale records are reported only, never deleted: a renamed path will be
classified afresh under its new name, and the old record keeps its
history until pruned by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStale,
}

func init() {
	rootCmd.AddCommand(staleCmd)
}

func runStale(cmd *cobra.Command, args []string) error {
	root := ""
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" && configStore != nil {
		root = configStore.GetString("corpus.root")
	}
	if root == "" {
		return fmt.Errorf("no corpus root: pass one as an argument or set corpus.root")
	}

	corpus, err := filesystem.New(root)
	if err != nil {
		return err
	}

	records, cleanup, err := openRecordStore()
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := corpus.Scan(cmd.Context())
	if err != nil {
		return err
	}
	live := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		live[e.Path] = struct{}{}
	}

	stale, err := records.StalePaths(cmd.Context(), live)
	if err != nil {
		return fmt.Errorf("checking stale records: %w", err)
	}

	if len(stale) == 0 {
		cmd.Println("No stale records.")
		return nil
	}
	cmd.Printf("%d stale records:\n", len(stale))
	for _, path := range stale {
		cmd.Printf("  %s\n", path)
	}
	return nil
}
