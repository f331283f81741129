// Package cli provides the command-line interface for Coursa.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

// version is set by main at startup.
var version = "dev"

// configStore is the shared configuration store, set by main.
var configStore driven.ConfigStore

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "coursa",
	Short: "Plan the reorganisation of a course-material corpus",
	Long: `Coursa classifies a directory tree of course material into study,
practice, support and skip categories and plans a reorganised layout.

Classification uses an external model provider configured via
'coursa settings'. Decisions are cached, so repeated runs over an
unchanged corpus cost no further model calls.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetConfigStore injects the configuration store used by all commands.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
