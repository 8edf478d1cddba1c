package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/billix/billix-be/db/migrations"
	"github.com/billix/billix-be/logging"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
)

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrationDB(func(db *sql.DB) error {
					if err := migrations.Up(db); err != nil {
						return err
					}
					logging.Component("migrate").Info("schema is up to date")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (one by default)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					parsed, err := strconv.Atoi(args[0])
					if err != nil || parsed <= 0 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = parsed
				}
				return withMigrationDB(func(db *sql.DB) error {
					if err := migrations.Down(db, steps); err != nil {
						return err
					}
					logging.Component("migrate").WithField("steps", steps).Info("rolled back migrations")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrationDB(func(db *sql.DB) error {
					version, dirty, err := migrations.Version(db)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version=%v dirty=%v\n", version, dirty)
					return nil
				})
			},
		},
	)
	return migrate
}

func withMigrationDB(run func(db *sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := sql.Open("mysql", cfg.DB.DSN(true))
	if err != nil {
		return err
	}
	defer db.Close()
	return run(db)
}
