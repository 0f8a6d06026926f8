package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibbank/risk-service/internal/infrastructure/config"
	"github.com/bibbank/risk-service/internal/infrastructure/postgres"
	pkgpostgres "github.com/bibbank/risk-service/pkg/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long:  "Apply or roll back the embedded PostgreSQL migrations. SQLite creates its schema when opened.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			if err := a.validated(); err != nil {
				return err
			}
			if a.cfg.Storage.Driver != config.StoragePostgres {
				return codeError(2, "migrate requires the postgres storage driver, got %q", a.cfg.Storage.Driver)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := pkgpostgres.RunMigrations(a.cfg.Postgres().DSN(), postgres.Migrations, postgres.MigrationsDir); err != nil {
					return err
				}
				a.logger.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := pkgpostgres.RunMigrationsDown(a.cfg.Postgres().DSN(), postgres.Migrations, postgres.MigrationsDir); err != nil {
					return err
				}
				a.logger.Info("migrations rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				v, dirty, err := pkgpostgres.MigrationVersion(a.cfg.Postgres().DSN(), postgres.Migrations, postgres.MigrationsDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			},
		},
	)
	return cmd
}
