// ABOUTME: Login and logout commands for the tokenboard CLI
// ABOUTME: Prompts for credentials and manages the persisted session

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/samuelikz/tokenboard/client"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the gateway",
	Long:  `Authenticate against the gateway and persist the session locally. Prompts for any credential not given by flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runLogin(ctx)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		if err := c.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(ctx context.Context) error {
	email, password := loginEmail, loginPassword

	var fields []huh.Field
	if email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&email))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password))
	}
	if len(fields) > 0 {
		form := huh.NewForm(huh.NewGroup(fields...))
		if err := form.RunWithContext(ctx); err != nil {
			return err
		}
	}

	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	c, err := client.New(GetAPIURL())
	if err != nil {
		return err
	}
	if err := c.Login(ctx, email, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	fmt.Printf("Logged in as %s.\n", email)
	return nil
}
