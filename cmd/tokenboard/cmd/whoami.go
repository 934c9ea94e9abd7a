// ABOUTME: Whoami command for the tokenboard CLI
// ABOUTME: Shows the current session identity, offline from decoded claims

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samuelikz/tokenboard/client"
)

var whoamiOffline bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in identity",
	Long: `Display who the current session belongs to.

By default the gateway is asked for the authoritative record. With --offline
the identity is decoded from the locally stored session token instead, which
works without network access but reflects the token as issued, not the
current upstream state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runWhoami(ctx)
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiOffline, "offline", false, "Decode the local session token instead of asking the gateway")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(ctx context.Context) error {
	c, err := client.New(GetAPIURL())
	if err != nil {
		return err
	}

	if whoamiOffline {
		claims, err := c.Claims()
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			data, _ := json.MarshalIndent(claims, "", "  ")
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("Name:  %s\nEmail: %s\nRole:  %s\n", claims.Name, claims.Email, claims.Role)
		return nil
	}

	user, err := c.Me(ctx)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("Name:  %s\nEmail: %s\nRole:  %s\nActive: %t\n", user.Name, user.Email, user.Role, user.IsActive)
	return nil
}
