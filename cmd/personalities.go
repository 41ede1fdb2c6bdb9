package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squadctl/internal/api"
	"github.com/squad-ai/squadctl/internal/auth"
	"github.com/squad-ai/squadctl/internal/config"
	"github.com/squad-ai/squadctl/internal/personality"
)

func newPersonalitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personalities",
		Short: "List available AI personalities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()

			if cfg.Mode != "backend" {
				// Direct mode has no backend registry; show the builtins.
				builtins := personality.Builtins()
				sort.Slice(builtins, func(i, j int) bool { return builtins[i].ID < builtins[j].ID })
				for _, p := range builtins {
					fmt.Printf("%-16s %-12s %s\n", p.ID, p.Category, p.Description)
				}
				return nil
			}

			client := api.New(cfg.Backend.BaseURL, cfg.Timeout())
			token, err := bearerToken(cmd.Context(), cfg, client)
			if err != nil {
				return err
			}
			list, err := client.Personalities(cmd.Context(), token)
			if err != nil {
				return err
			}
			for _, p := range list {
				status := ""
				if !p.IsActive {
					status = " (inactive)"
				}
				fmt.Printf("%-16s %-12s %s%s\n", p.ID, p.PersonalityType, p.Description, status)
			}
			return nil
		},
	}
}

// bearerToken returns a valid access token for one-shot API commands,
// refreshing through the backend when the stored one has expired.
func bearerToken(ctx context.Context, cfg *config.Config, client *api.Client) (string, error) {
	creds, err := credentialStore(cfg)
	if err != nil {
		return "", err
	}
	access := creds.AccessToken()
	refresh := creds.RefreshToken()
	if access == "" || refresh == "" {
		return "", fmt.Errorf("not logged in; run `squadctl login` first")
	}
	if !auth.IsExpired(access, nil) {
		return access, nil
	}
	if auth.IsExpired(refresh, nil) {
		return "", fmt.Errorf("session expired; run `squadctl login` again")
	}
	info, err := client.Refresh(ctx, refresh)
	if err != nil {
		return "", fmt.Errorf("session expired; run `squadctl login` again")
	}
	newRefresh := info.RefreshToken
	if newRefresh == "" {
		newRefresh = refresh
	}
	if err := creds.SaveTokens(info.AccessToken, newRefresh); err != nil {
		return "", err
	}
	return info.AccessToken, nil
}
