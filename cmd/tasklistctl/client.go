package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/internal/config"
	"github.com/fastygo/tasklists/internal/infrastructure/storage"
	"github.com/fastygo/tasklists/internal/token"
	authUC "github.com/fastygo/tasklists/usecase/auth"
)

func clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage client credentials",
	}
	cmd.AddCommand(clientAddCmd())
	return cmd
}

func clientAddCmd() *cobra.Command {
	var (
		id, secret, name, registeredBy string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a client credential directly in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" || secret == "" {
				return errors.New("--id and --secret are required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Store.Driver == config.DriverMemory {
				return errors.New("client add needs a persistent STORE_DRIVER")
			}

			ctx := context.Background()
			store, closeStore, err := storage.Open(ctx, cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer closeStore(ctx)

			tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
			if err != nil {
				return err
			}

			client, err := authUC.New(store.Clients(), tokens, nil).Register(ctx, registeredBy, authUC.RegisterInput{
				ClientID:     id,
				ClientSecret: secret,
				Name:         name,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(client)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "client_id")
	cmd.Flags().StringVar(&secret, "secret", "", "client_secret")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&registeredBy, "registered-by", "tasklistctl", "subject recorded as registrant")
	return cmd
}
