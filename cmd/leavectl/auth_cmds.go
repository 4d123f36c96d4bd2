package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginRemember  bool
	loginOAuthCode string
)

func init() {
	loginCmd.Flags().BoolVar(&loginRemember, "remember", false, "persist the session across runs")
	loginCmd.Flags().StringVar(&loginOAuthCode, "oauth-code", "", "authorization code from the identity-provider redirect")
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in with email and password",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if loginOAuthCode != "" {
			if loginRemember || a.Cfg.RememberMe {
				if err := a.Client.Sessions().SetRememberPreference(true); err != nil {
					return err
				}
			}
			if err := a.Stores.Auth.ExchangeOAuthCode(cmd.Context(), loginOAuthCode); err != nil {
				return err
			}
			user, _ := a.Stores.Auth.User()
			fmt.Printf("Signed in as %s (%s)\n", user.FullName(), user.Role)
			return nil
		}

		email := ""
		if len(args) == 1 {
			email = args[0]
		} else {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		remember := loginRemember || a.Cfg.RememberMe
		if err := a.Stores.Auth.Login(cmd.Context(), email, string(password), remember); err != nil {
			return err
		}
		user, _ := a.Stores.Auth.User()
		fmt.Printf("Signed in as %s (%s)\n", user.FullName(), user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.Stores.Auth.Logout(cmd.Context()); err != nil {
			a.Log.Warn("server logout failed, local tokens cleared anyway", "err", err)
		}
		a.Stores.Reset()
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		user, _ := a.Stores.Auth.User()
		fmt.Printf("%s <%s>\n", user.FullName(), user.Email)
		fmt.Printf("Role: %s\n", a.Stores.Auth.Role())
		if user.DepartmentID != "" {
			fmt.Printf("Department: %s\n", user.DepartmentID)
		}
		return nil
	},
}
