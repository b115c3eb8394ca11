package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

var tokenTTL time.Duration

// tokenCmd mints an access token for local testing
var tokenCmd = &cobra.Command{
	Use:   "token <user-id> <email>",
	Short: "Mint a development access token",
	Long: `Signs an access token with the configured secret, shaped like the
tokens issued by the auth provider. Disabled in production.`,
	Args: cobra.ExactArgs(2),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	if e.cfg.IsProduction() {
		return errors.New("development tokens are disabled in production")
	}

	token, err := auth.NewJWTManager(e.cfg).GenerateAccessToken(userID, args[1], tokenTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
