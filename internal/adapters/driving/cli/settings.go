package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// settingsKeys are the recognised configuration keys and their help text.
var settingsKeys = []struct {
	key  string
	help string
}{
	{"corpus.root", "default corpus root directory"},
	{"descriptions.db", "path to the scraper metadata database"},
	{"oracle.provider", "model provider: openai or anthropic"},
	{"oracle.model", "model name (provider default when empty)"},
	{"oracle.base_url", "provider base URL override"},
	{"classify.threshold", "confidence below which a folder decision escalates"},
	{"classify.parallel", "maximum concurrent model calls"},
	{"storage.dir", "directory holding the record store"},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the model provider, classification thresholds and
default paths. Settings persist in the coursa config file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Store the provider API key",
	Long: `Prompts for the model provider API key without echoing it and stores
it in the config file. Leave it unset to use the OPENAI_API_KEY or
ANTHROPIC_API_KEY environment variables instead.`,
	RunE: runSettingsKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, entry := range settingsKeys {
		value := configStore.GetString(entry.key)
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("  %-20s %s\n", entry.key, value)
	}

	if configStore.GetString("oracle.api_key") != "" {
		cmd.Printf("  %-20s %s\n", "oracle.api_key", maskAPIKey(configStore.GetString("oracle.api_key")))
	} else {
		cmd.Printf("  %-20s (not set, falls back to environment)\n", "oracle.api_key")
	}
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key, raw := args[0], args[1]

	if !knownSettingsKey(key) {
		return fmt.Errorf("unknown key %q (see 'coursa settings show')", key)
	}

	value, err := coerceSettingsValue(key, raw)
	if err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

func runSettingsKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("no key entered")
	}

	if err := configStore.Set("oracle.api_key", apiKey); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

func knownSettingsKey(key string) bool {
	for _, entry := range settingsKeys {
		if entry.key == key {
			return true
		}
	}
	return false
}

// coerceSettingsValue converts raw input to the key's natural type so the
// config file round-trips numbers as numbers.
func coerceSettingsValue(key, raw string) (any, error) {
	switch key {
	case "classify.threshold":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("%s must be a number between 0 and 1", key)
		}
		return v, nil
	case "classify.parallel":
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return v, nil
	case "oracle.provider":
		p := strings.ToLower(raw)
		if p != "openai" && p != "anthropic" {
			return nil, fmt.Errorf("%s must be openai or anthropic", key)
		}
		return p, nil
	default:
		return raw, nil
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
