package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/squad-ai/squadctl/internal/api"
	"github.com/squad-ai/squadctl/internal/auth"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to the Squad backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			creds, err := credentialStore(cfg)
			if err != nil {
				return err
			}

			email, password, err := promptCredentials(false)
			if err != nil {
				return err
			}

			client := api.New(cfg.Backend.BaseURL, cfg.Timeout())
			resp, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return loginError(err)
			}
			if err := saveAuth(creds, resp); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", resp.User.Email)
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a Squad account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			creds, err := credentialStore(cfg)
			if err != nil {
				return err
			}

			name, err := promptLine("Name: ")
			if err != nil {
				return err
			}
			email, password, err := promptCredentials(true)
			if err != nil {
				return err
			}

			client := api.New(cfg.Backend.BaseURL, cfg.Timeout())
			resp, err := client.Register(cmd.Context(), email, password, name)
			if err != nil {
				return loginError(err)
			}
			if err := saveAuth(creds, resp); err != nil {
				return err
			}
			fmt.Printf("Welcome, %s! You are logged in.\n", resp.User.Name)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			creds, err := credentialStore(cfg)
			if err != nil {
				return err
			}
			if err := creds.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Wipe the current conversation's stored history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			msgs, err := messageStore(cfg)
			if err != nil {
				return err
			}
			defer msgs.Close()

			_, _, conversationID := chatTarget()
			if err := msgs.Clear(context.Background(), conversationID); err != nil {
				return err
			}
			fmt.Printf("Conversation %s cleared.\n", conversationID)
			return nil
		},
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptCredentials(confirm bool) (email, password string, err error) {
	email, err = promptLine("Email: ")
	if err != nil {
		return "", "", err
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	if confirm {
		fmt.Print("Confirm password: ")
		pw2, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		if string(pw) != string(pw2) {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return email, string(pw), nil
}

// saveAuth persists the token pair and user id from a successful auth
// response.
func saveAuth(creds auth.Store, resp *api.AuthResponse) error {
	if err := creds.SaveTokens(resp.Tokens.AccessToken, resp.Tokens.RefreshToken); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	if resp.User.ID != "" {
		if err := creds.SaveUserID(resp.User.ID); err != nil {
			return fmt.Errorf("save user id: %w", err)
		}
	}
	return nil
}

func loginError(err error) error {
	var serr *api.StatusError
	if errors.As(err, &serr) {
		if serr.Code == 401 || serr.Code == 403 {
			return fmt.Errorf("invalid email or password")
		}
		if msg := serr.Message(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
	}
	return err
}
