// Command storefrontctl is the operator tool for the storefront backend.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "storefrontctl",
	Short:         "Operate the storefront backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `storefrontctl runs maintenance tasks against the storefront database
and integrations: schema migrations, seed data, order status updates and
email delivery checks.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(migrateCmd, seedCmd, emailTestCmd, ordersCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs
type env struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return &env{cfg: cfg, logger: log}, nil
}

func (e *env) connect() (*postgres.DB, error) {
	return postgres.NewConnection(e.cfg, e.logger)
}
