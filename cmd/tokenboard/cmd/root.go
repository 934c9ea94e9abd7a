// ABOUTME: Root command for the tokenboard CLI
// ABOUTME: Handles global flags and gateway address resolution

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "tokenboard",
	Short: "CLI for the Tokenboard gateway",
	Long: `tokenboard is a command-line interface for the token management gateway.

It lets operators manage users and API tokens from the terminal and browse
both lists interactively.

Environment Variables:
  TOKENBOARD_API_URL  Gateway URL (default: http://localhost:8080)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Gateway URL (overrides TOKENBOARD_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the gateway URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("TOKENBOARD_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
