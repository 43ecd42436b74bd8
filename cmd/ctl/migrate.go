package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pennywise/internal/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				if err := mg.Up(); err != nil {
					return err
				}

				return printVersion(cmd, mg)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}

			return withMigrator(func(mg *database.Migrator) error {
				if err := mg.Down(steps); err != nil {
					return err
				}

				return printVersion(cmd, mg)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				return printVersion(cmd, mg)
			})
		},
	})

	return cmd
}

func withMigrator(fn func(mg *database.Migrator) error) error {
	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	mg, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}

func printVersion(cmd *cobra.Command, mg *database.Migrator) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}

	if dirty {
		cmd.Printf("schema version %d (dirty)\n", version)
		return nil
	}

	cmd.Printf("schema version %d\n", version)

	return nil
}
