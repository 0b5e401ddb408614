package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/session"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		Long: `Sign in with your email and password.

The session token and your profile are stored locally, so later
commands run without signing in again.

Examples:
  kmato login --email you@example.com --password secret
  kmato login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if email == "" {
				email = prompt("Email: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}

			_, err = client.Session.Login(cmd.Context(), model.Credentials{
				Email:    email,
				Password: password,
			})
			if session.IsNoCredential(err) {
				return fmt.Errorf("the server accepted the login but returned no token")
			}
			if err != nil {
				return err
			}

			if u := client.Session.User(); u != nil {
				success("Signed in as %s (%s)", u.FullName, u.Email)
			} else {
				success("Signed in")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")

	return cmd
}

func registerCmd() *cobra.Command {
	var reg model.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if reg.Email == "" {
				reg.Email = prompt("Email: ")
			}
			if reg.Password == "" {
				reg.Password = prompt("Password: ")
			}
			if reg.FullName == "" {
				reg.FullName = prompt("Full name: ")
			}

			if _, err := client.Session.Register(cmd.Context(), reg); err != nil {
				return err
			}
			success("Account created for %s", reg.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reg.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "Account password")
	cmd.Flags().StringVarP(&reg.FullName, "name", "n", "", "Full name")
	cmd.Flags().StringVar(&reg.PhoneNumber, "phone", "", "Phone number")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			client.Session.Logout()
			success("Signed out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if !client.Session.IsLoggedIn() {
				warn("Not signed in. Run 'kmato login' first.")
				return nil
			}

			u := client.Session.User()
			if refresh || u == nil {
				u, err = client.Session.FetchCurrentUser(cmd.Context())
				if err != nil {
					return err
				}
			}

			info("Name:  %s", u.FullName)
			info("Email: %s", u.Email)
			info("Role:  %s", u.Role)
			if client.Session.IsRestaurantOwner() {
				info("This account manages a restaurant.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-fetch the profile from the server")

	return cmd
}

func prompt(label string) string {
	fmt.Print(label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
