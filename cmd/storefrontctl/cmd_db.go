package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
)

var (
	migrateDrop bool
	migrateYes  bool
)

// migrateCmd creates or updates the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations and create indexes",
	Long: `Auto-migrates products, promotions, promotion_products, orders,
order_items and reviews, then creates the search and lookup indexes.

--drop removes every table first and requires --yes.`,
	RunE: runMigrate,
}

// seedCmd inserts demo catalog data
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo products and promotions into an empty catalog",
	RunE:  runSeed,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDrop, "drop", false, "drop all tables before migrating")
	migrateCmd.Flags().BoolVar(&migrateYes, "yes", false, "confirm destructive operations")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrateDrop && !migrateYes {
		return errors.New("--drop deletes all data; pass --yes to confirm")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	if migrateDrop && e.cfg.IsProduction() {
		return errors.New("refusing to drop tables in production")
	}

	db, err := e.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	migration := postgres.NewMigration(db.GetDB(), e.logger)
	if migrateDrop {
		if err := migration.DropAllTables(); err != nil {
			return err
		}
	}
	if err := migration.RunAutoMigrations(); err != nil {
		return err
	}
	if err := migration.CreateIndexes(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✅ migrations applied")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	db, err := e.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.NewMigration(db.GetDB(), e.logger).SeedInitialData(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✅ seed data applied")
	return nil
}
