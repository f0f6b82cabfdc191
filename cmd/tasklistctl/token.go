package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/internal/config"
	"github.com/fastygo/tasklists/internal/token"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a subject",
		Long: `Mint a bearer token signed with JWT_SECRET.

Useful for bootstrapping: the first client credential must be registered
by an authenticated subject.

Examples:
  tasklistctl token --subject admin
  tasklistctl token --subject 3f1c... --ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return errors.New("--subject is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWT.TTL
			}

			mgr, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, ttl)
			if err != nil {
				return err
			}
			raw, err := mgr.IssueWithTTL(subject, ttl)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(domain.Token{
				AccessToken: raw,
				TokenType:   "bearer",
				ExpiresIn:   int(ttl.Seconds()),
			})
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "subject id placed in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_TTL)")
	return cmd
}
