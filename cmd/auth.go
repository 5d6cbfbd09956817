package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/session"
)

const authTimeout = 30 * time.Second

func newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			client := api.New(cfg.Server)
			creds, err := runLogin(client, email)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", creds.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when omitted)")
	return cmd
}

func newSignupCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			client := api.New(cfg.Server)

			em, pw, err := promptCredentials(email)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
			defer cancel()
			if err := client.Signup(ctx, em, pw); err != nil {
				return describeAuthError(err, "signup failed")
			}
			fmt.Println("Account created. Logging you in...")

			tok, err := client.Login(ctx, em, pw)
			if err != nil {
				return describeAuthError(err, "login failed")
			}
			if err := saveToken(tok, em); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", em)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := session.DefaultCredentialsPath()
			if err != nil {
				return err
			}
			if err := session.ClearCredentials(path); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// runLogin prompts for credentials, authenticates, and persists the token.
// Shared by the login subcommand and the chat's first-run flow.
func runLogin(client *api.Client, email string) (*session.Credentials, error) {
	em, pw, err := promptCredentials(email)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()
	tok, err := client.Login(ctx, em, pw)
	if err != nil {
		return nil, describeAuthError(err, "login failed")
	}
	if err := saveToken(tok, em); err != nil {
		return nil, err
	}
	return &session.Credentials{Token: tok.AccessToken, Email: em}, nil
}

func saveToken(tok *api.Token, email string) error {
	path, err := session.DefaultCredentialsPath()
	if err != nil {
		return err
	}
	if tok.Email != "" {
		email = tok.Email
	}
	return session.SaveCredentials(path, &session.Credentials{Token: tok.AccessToken, Email: email})
}

// promptCredentials reads the email (when not given) and the password.
// The password never echoes when stdin is a terminal.
func promptCredentials(email string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	fmt.Print("Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		return email, string(raw), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return email, strings.TrimRight(line, "\r\n"), nil
}

// describeAuthError keeps the server's own message when it rejected the
// credentials, and falls back to a generic line for network failures.
func describeAuthError(err error, fallback string) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return errors.New(apiErr.Detail)
		}
		return errors.New(fallback)
	}
	return fmt.Errorf("%s: could not reach the server: %w", fallback, err)
}
