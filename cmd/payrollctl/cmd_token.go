package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// =============================================================================
// TOKEN COMMAND - access tokens for write-protected deployments
// =============================================================================

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token accepted by the API's write routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWT.Secret
				if ttl == 0 {
					ttl = cfg.JWT.AccessExpiration
				}
			}
			if secret == "" {
				return errors.New("JWT_SECRET_KEY is not set; the API accepts writes without a token")
			}
			if ttl == 0 {
				ttl = time.Hour
			}

			token, expiresAt, err := jwt.NewJWTService(secret, ttl).GenerateAccessToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "payroll-admin", "token subject")
	cmd.Flags().StringVar(&role, "role", "admin", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_ACCESS_EXPIRATION_TIME)")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default JWT_SECRET_KEY)")
	return cmd
}
