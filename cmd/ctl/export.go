package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
	userStore "github.com/MrJamesThe3rd/pennywise/internal/user/store"
)

func exportCmd() *cobra.Command {
	var (
		email  string
		from   string
		to     string
		digest bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's transactions for a date range as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := time.Parse(time.DateOnly, from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}

			end, err := time.Parse(time.DateOnly, to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			u, err := user.NewService(userStore.New(db), nil).GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("looking up %s: %w", email, err)
			}

			txs, err := export.NewService(newServices(db).transactions).Collect(cmd.Context(), u.ID, start, end)
			if err != nil {
				return err
			}

			if digest {
				cmd.Print(export.Digest(txs))
				return nil
			}

			return export.WriteCSV(cmd.OutOrStdout(), txs)
		},
	}

	cmd.Flags().StringVar(&email, "user", "", "email of the owning user")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&digest, "digest", false, "print a plain-text digest instead of CSV")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
