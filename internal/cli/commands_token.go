package cli

import (
	"fmt"
	"time"

	"planets-mapgen/internal/auth"

	"github.com/spf13/cobra"
)

const minSecretLength = 32

func newTokenCommand(deps Dependencies) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed token for the galaxy API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(deps.JWTSecret) < minSecretLength {
				return fmt.Errorf("JWT_SECRET must be set and at least %d characters long", minSecretLength)
			}
			if role != auth.RoleAdmin && role != auth.RoleViewer {
				return fmt.Errorf("unsupported role %q", role)
			}
			if !cmd.Flags().Changed("ttl") && deps.TokenTTL > 0 {
				ttl = deps.TokenTTL
			}

			token, err := auth.GenerateJWT(deps.JWTSecret, subject, role, ttl)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, usually an operator name.")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "Token role: admin or viewer.")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime.")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
