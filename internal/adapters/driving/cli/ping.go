package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the configured model provider is reachable",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	oracle, err := buildOracleForPing()
	if err != nil {
		return err
	}
	defer oracle.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	if err := oracle.Ping(ctx); err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	cmd.Printf("OK: %s is reachable.\n", oracle.ModelName())
	return nil
}
