// ABOUTME: Browse command for the tokenboard CLI
// ABOUTME: Launches the interactive terminal dashboard

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samuelikz/tokenboard/client"
	"github.com/samuelikz/tokenboard/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse users and tokens interactively",
	Long: `Open a terminal dashboard with tabbed users and tokens views.

Requires a logged-in session; run login first. The token list falls back to
the caller's own tokens when the session lacks admin rights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		if !c.LoggedIn() {
			return fmt.Errorf("not logged in; run login first")
		}
		return tui.Run(c)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
