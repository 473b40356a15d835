package cmd

import (
	"context"
	"fmt"
	"strconv"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdutils "github.com/opencrowd/crowdfund-backend/cmd/utils"
	"github.com/opencrowd/crowdfund-backend/internal/db"
	"github.com/opencrowd/crowdfund-backend/internal/utils"
)

type migrateCmd struct{}

func (c *migrateCmd) Command() *cobra.Command {
	var databasePath string
	cfgOpts := cmdutils.ConfigOptions{
		cmdutils.DatabasePathOption(&databasePath),
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migration helpers",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := cfgOpts.RequireE(); err != nil {
				return fmt.Errorf("requiring values of config options: %w", err)
			}
			if err := cfgOpts.SetValues(); err != nil {
				return fmt.Errorf("setting values of config options: %w", err)
			}
			return nil
		},
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Migrates database up [count] migrations",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var count int
			if len(args) > 0 {
				var err error
				count, err = strconv.Atoi(args[0])
				if err != nil {
					logrus.Fatalf("Invalid [count] argument: %s", args[0])
				}
			}

			if err := executeMigrations(cmd.Context(), databasePath, migrate.Up, count); err != nil {
				logrus.Fatalf("Error executing migrate up: %v", err)
			}
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down [count]",
		Short: "Migrates database down [count] migrations",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				logrus.Fatalf("Invalid [count] argument: %s", args[0])
			}

			if err := executeMigrations(cmd.Context(), databasePath, migrate.Down, count); err != nil {
				logrus.Fatalf("Error executing migrate down: %v", err)
			}
		},
	}

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	if err := cfgOpts.Init(migrateCmd); err != nil {
		logrus.Fatalf("Error initializing a config option: %s", err.Error())
	}

	return migrateCmd
}

func executeMigrations(ctx context.Context, databasePath string, direction migrate.MigrationDirection, count int) error {
	pool, err := db.OpenConnectionPool(databasePath)
	if err != nil {
		return fmt.Errorf("opening connection pool: %w", err)
	}
	defer utils.DeferredClose(ctx, pool, "closing connection pool")

	applied, err := db.Migrate(ctx, pool, direction, count)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	logrus.Infof("Applied %d migrations", applied)
	return nil
}
