package main

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/pkg/email"
)

// emailTestCmd sends a test message through the configured provider
var emailTestCmd = &cobra.Command{
	Use:   "email-test <address>",
	Short: "Send a test email through the configured provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmailTest,
}

func runEmailTest(cmd *cobra.Command, args []string) error {
	addr, err := mail.ParseAddress(args[0])
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", args[0], err)
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	svc, err := email.NewEmailService(e.cfg, e.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := svc.SendTestEmail(ctx, addr.Address); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ test email sent to %s via %s\n", addr.Address, e.cfg.External.Email.Provider)
	return nil
}
