package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username cannot be empty")
			}

			pw := password
			if pw == "" {
				var err error
				pw, err = promptPassword(cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
			}
			if pw == "" {
				return errors.New("password cannot be empty")
			}

			if err := app.session.Login(cmd.Context(), username, pw); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			_, name := app.session.User()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account (does not sign in)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username cannot be empty")
			}

			pw := password
			if pw == "" {
				first, err := promptPassword(cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				again, err := promptPassword(cmd.OutOrStdout(), "Confirm password: ")
				if err != nil {
					return err
				}
				if first != again {
					return errors.New("passwords do not match")
				}
				pw = first
			}
			if pw == "" {
				return errors.New("password cannot be empty")
			}

			if err := app.session.Register(cmd.Context(), username, pw); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. You can now log in.")
			return nil
		}),
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			app.session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "You have been logged out.")
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if !app.session.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			id, name := app.session.User()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %s)\n", name, id)
			return nil
		}),
	}
}

// promptPassword reads a password without echo when stdin is a
// terminal, and falls back to a plain line read otherwise (pipes,
// tests).
func promptPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
