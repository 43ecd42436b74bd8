package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
	userStore "github.com/MrJamesThe3rd/pennywise/internal/user/store"
)

func importCmd() *cobra.Command {
	var (
		email    string
		category string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement for a user",
		Long: `Import a CGD CSV or OFX/QFX statement.

Rows are categorized by the user's rules, falling back to --category.
When any row duplicates an existing transaction nothing is stored and
the conflicts are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if format == "" {
				format = filepath.Ext(path)
			}

			f, err := importer.ParseFormat(format)
			if err != nil {
				return err
			}

			var fallback *uuid.UUID
			if category != "" {
				id, err := uuid.Parse(category)
				if err != nil {
					return fmt.Errorf("invalid --category: %w", err)
				}
				fallback = &id
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			u, err := user.NewService(userStore.New(db), nil).GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("looking up %s: %w", email, err)
			}

			svc := newServices(db)
			result, err := importer.NewService(svc.rules, svc.transactions).
				Import(cmd.Context(), u.ID, f, file, fallback)
			if err != nil {
				return err
			}

			if len(result.Conflicts) > 0 {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tAMOUNT\tDESCRIPTION\tEXISTING")

				for _, c := range result.Conflicts {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						c.Incoming.Date.Format("2006-01-02"),
						c.Incoming.Amount.StringFixed(2),
						c.Incoming.Description,
						c.Existing.ID)
				}

				if err := w.Flush(); err != nil {
					return err
				}

				return fmt.Errorf("%d of %d rows already exist; nothing imported",
					len(result.Conflicts), len(result.Conflicts)+len(result.New))
			}

			cmd.Printf("imported %d transactions into %s\n", len(result.Imported), cfg.App.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "user", "", "email of the owning user")
	cmd.Flags().StringVar(&category, "category", "", "fallback category id for unmatched rows")
	cmd.Flags().StringVar(&format, "format", "", "statement format (cgd, ofx); defaults to the file extension")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
