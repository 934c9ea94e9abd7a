// ABOUTME: User management commands for the tokenboard CLI
// ABOUTME: List, create, toggle, promote, and delete users via the gateway

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/samuelikz/tokenboard/client"
	"github.com/samuelikz/tokenboard/internal/tui/styles"
	"github.com/samuelikz/tokenboard/models"
	"github.com/samuelikz/tokenboard/reconcile"
)

var (
	userFilter    string
	userRole      string
	profileName   string
	profileEmail  string
	passwdCurrent string
	passwdNew     string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long:  `List all users, admins first, ordered by name. --filter matches name, email, and role.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		users, err := c.Users(ctx)
		if err != nil {
			return err
		}
		users = reconcile.Users(users, userFilter)

		if IsJSONOutput() {
			data, _ := json.MarshalIndent(users, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(styles.Title.Render("Users"))
		fmt.Println(renderUserTable(users))
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <name> <email> <password>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		user, err := c.CreateUser(ctx, models.CreateUserRequest{
			Name:     args[0],
			Email:    args[1],
			Password: args[2],
			Role:     userRole,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s).\n", user.Name, user.ID)
		return nil
	},
}

var usersToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a user's active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		user, err := c.ToggleUser(ctx, args[0])
		if err != nil {
			return err
		}
		state := "inactive"
		if user.IsActive {
			state = "active"
		}
		fmt.Printf("User %s is now %s.\n", user.Name, state)
		return nil
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role <id> <ADMIN|USER>",
	Short: "Promote or demote a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		role := strings.ToUpper(args[1])
		if role != models.RoleAdmin && role != models.RoleUser {
			return fmt.Errorf("role must be ADMIN or USER")
		}

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		user, err := c.SetUserRole(ctx, args[0], role)
		if err != nil {
			return err
		}
		fmt.Printf("User %s is now %s.\n", user.Name, user.Role)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		if err := c.DeleteUser(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted user %s.\n", args[0])
		return nil
	},
}

var usersProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your own name and email",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if profileName == "" && profileEmail == "" {
			return fmt.Errorf("nothing to update; pass --name or --email")
		}

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		user, err := c.UpdateMyProfile(ctx, profileName, profileEmail)
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated: %s <%s>.\n", user.Name, user.Email)
		return nil
	},
}

var usersPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your own password",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		current, next := passwdCurrent, passwdNew
		var fields []huh.Field
		if current == "" {
			fields = append(fields, huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&current))
		}
		if next == "" {
			fields = append(fields, huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&next))
		}
		if len(fields) > 0 {
			form := huh.NewForm(huh.NewGroup(fields...))
			if err := form.RunWithContext(ctx); err != nil {
				return err
			}
		}
		if next == "" {
			return fmt.Errorf("new password is required")
		}

		c, err := client.New(GetAPIURL())
		if err != nil {
			return err
		}
		if err := c.ChangeMyPassword(ctx, current, next); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

func init() {
	usersListCmd.Flags().StringVar(&userFilter, "filter", "", "Filter by name, email, or role")
	usersCreateCmd.Flags().StringVar(&userRole, "role", "", "Role for the new user (ADMIN or USER)")
	usersProfileCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	usersProfileCmd.Flags().StringVar(&profileEmail, "email", "", "New email address")
	usersPasswdCmd.Flags().StringVar(&passwdCurrent, "current", "", "Current password (prompted when omitted)")
	usersPasswdCmd.Flags().StringVar(&passwdNew, "new", "", "New password (prompted when omitted)")
	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersToggleCmd, usersRoleCmd, usersDeleteCmd, usersProfileCmd, usersPasswdCmd)
	rootCmd.AddCommand(usersCmd)
}

func renderUserTable(users []models.User) string {
	if len(users) == 0 {
		return styles.Subtitle.Render("no users")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-30s %-7s %s\n", "NAME", "EMAIL", "ROLE", "STATUS")
	for _, u := range users {
		status := styles.StatusOK.Render("active")
		if !u.IsActive {
			status = styles.StatusCritical.Render("inactive")
		}
		fmt.Fprintf(&b, "%-24s %-30s %-7s %s\n", u.Name, u.Email, u.Role, status)
	}
	return b.String()
}
