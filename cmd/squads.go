package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squadctl/internal/api"
)

func newSquadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squads",
		Short: "List your squads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			if cfg.Mode != "backend" {
				return fmt.Errorf("squads live on the backend; direct mode has none")
			}

			client := api.New(cfg.Backend.BaseURL, cfg.Timeout())
			token, err := bearerToken(cmd.Context(), cfg, client)
			if err != nil {
				return err
			}
			list, err := client.Squads(cmd.Context(), token)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No squads yet. Create one with `squadctl squads create`.")
				return nil
			}
			for _, s := range list {
				fmt.Printf("%-16s %-20s members: %s\n", s.ID, s.Name, strings.Join(s.MemberIDs, ", "))
			}
			return nil
		},
	}
	cmd.AddCommand(newSquadsCreateCmd())
	return cmd
}

func newSquadsCreateCmd() *cobra.Command {
	var name, description string
	var members []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a squad from 2-3 personalities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if len(members) < 2 || len(members) > 3 {
				return fmt.Errorf("a squad needs 2-3 members, got %d", len(members))
			}

			cfg := initConfig()
			client := api.New(cfg.Backend.BaseURL, cfg.Timeout())
			token, err := bearerToken(cmd.Context(), cfg, client)
			if err != nil {
				return err
			}
			squad, err := client.CreateSquad(cmd.Context(), token, &api.CreateSquadRequest{
				Name:        name,
				Description: description,
				MemberIDs:   members,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created squad %s (%s).\n", squad.Name, squad.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "squad name")
	cmd.Flags().StringVar(&description, "description", "", "squad description")
	cmd.Flags().StringSliceVar(&members, "members", nil, "personality ids (2-3, comma separated)")
	return cmd
}
