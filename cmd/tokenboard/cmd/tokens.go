// ABOUTME: API token commands for the tokenboard CLI
// ABOUTME: List, create, and revoke tokens via the gateway

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samuelikz/tokenboard/client"
	"github.com/samuelikz/tokenboard/internal/tui/styles"
	"github.com/samuelikz/tokenboard/models"
	"github.com/samuelikz/tokenboard/reconcile"
)

var (
	tokenFilter      string
	tokenAll         bool
	tokenScope       string
	tokenExpiresAt   string
	tokenDescription string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage API tokens",
}

var tokensListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API tokens",
	Long: `List the caller's API tokens, usable tokens first, newest first.

--all lists every token in the system; upstream rejects that for non-admin
sessions. --filter matches description, owner, creator, and scope.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}

		var tokens []models.APIToken
		if tokenAll {
			tokens, err = c.AllTokens(ctx)
		} else {
			tokens, err = c.Tokens(ctx)
		}
		if err != nil {
			return err
		}
		tokens = reconcile.Tokens(tokens, tokenFilter)

		if IsJSONOutput() {
			data, _ := json.MarshalIndent(tokens, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(styles.Title.Render("API tokens"))
		fmt.Println(renderTokenTable(tokens))
		return nil
	},
}

var tokensCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API token",
	Long: `Mint a new API token with the given scope.

The plaintext key is printed exactly once; it cannot be recovered later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		scope := strings.ToUpper(tokenScope)
		switch scope {
		case models.ScopeRead, models.ScopeWrite, models.ScopeReadWrite:
		default:
			return fmt.Errorf("scope must be READ, WRITE, or READ_WRITE")
		}

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		created, err := c.CreateToken(ctx, models.CreateTokenRequest{
			Scope:       scope,
			ExpiresAt:   tokenExpiresAt,
			Description: tokenDescription,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created token %s (%s).\n\n", created.Token.ID, created.Token.Scope)
		fmt.Println(styles.StatusWarning.Render("Store this key now; it will not be shown again:"))
		fmt.Println(styles.ValueStyle.Render(created.APIKey))
		return nil
	},
}

var tokensRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke an API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		if err := c.RevokeToken(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Revoked token %s.\n", args[0])
		return nil
	},
}

func init() {
	tokensListCmd.Flags().StringVar(&tokenFilter, "filter", "", "Filter by description, owner, creator, or scope")
	tokensListCmd.Flags().BoolVar(&tokenAll, "all", false, "List every token in the system (admin only)")
	tokensCreateCmd.Flags().StringVar(&tokenScope, "scope", "", "Token scope: READ, WRITE, or READ_WRITE (required)")
	tokensCreateCmd.Flags().StringVar(&tokenExpiresAt, "expires-at", "", "Expiry timestamp (RFC3339 or YYYY-MM-DD)")
	tokensCreateCmd.Flags().StringVar(&tokenDescription, "description", "", "Free-form description")
	tokensCreateCmd.MarkFlagRequired("scope")
	tokensCmd.AddCommand(tokensListCmd, tokensCreateCmd, tokensRevokeCmd)
	rootCmd.AddCommand(tokensCmd)
}

func renderTokenTable(tokens []models.APIToken) string {
	if len(tokens) == 0 {
		return styles.Subtitle.Render("no tokens")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-24s %-22s %-10s %-10s %s\n", "ID", "DESCRIPTION", "OWNER", "SCOPE", "STATUS", "EXPIRES")
	for _, t := range tokens {
		status := styles.StatusOK.Render("active")
		if !t.Active() {
			status = styles.StatusCritical.Render("inactive")
		}
		owner := t.OwnerName
		if owner == "" {
			owner = t.OwnerEmail
		}
		expires := t.ExpiresAt
		if expires == "" {
			expires = "-"
		}
		fmt.Fprintf(&b, "%-8s %-24s %-22s %-10s %-10s %s\n",
			t.ID, truncate(t.Description, 24), truncate(owner, 22), t.Scope, status, expires)
	}
	return b.String()
}

// truncate shortens s to max characters, counting runes so accented text is
// never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
