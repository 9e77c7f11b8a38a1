package main

import (
	"fmt"
	"log/slog"

	"market-catalog/internal/config"
	entity "market-catalog/internal/domain"
	utils "market-catalog/pkg"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newIssueTokenCmd registers an account in the configured database and prints
// a bearer token for it. Meant for operators and local testing.
func newIssueTokenCmd(configPath *string) *cobra.Command {
	var email, username, avatar string

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Create or update an account and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("the memory driver does not outlive this command")
			}

			store, err := openStore(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer store.close()

			user := entity.User{
				ID:      uuid.New(),
				Email:   email,
				Account: entity.Account{Username: username, Avatar: avatar},
			}
			if err := store.users.SaveUser(cmd.Context(), user); err != nil {
				return err
			}
			token, err := utils.GenerateToken(user.ID, cfg.JWT)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user_id=%s\ntoken=%s\n", user.ID, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&username, "username", "", "Public username")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
