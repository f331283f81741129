// Command coursa plans the reorganisation of course-material corpora.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/coursa-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "coursa: loading configuration: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
