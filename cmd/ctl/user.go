package main

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
	userStore "github.com/MrJamesThe3rd/pennywise/internal/user/store"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var params user.RegisterParams

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := user.NewService(userStore.New(db), auth.NewHasher(cfg.Auth.BcryptCost))

			u, err := svc.Register(cmd.Context(), params)
			if err != nil {
				return err
			}

			cmd.Printf("created user %s <%s> (%s)\n", u.Name, u.Email, u.ID)

			return nil
		},
	}

	add.Flags().StringVar(&params.Name, "name", "", "display name")
	add.Flags().StringVar(&params.Email, "email", "", "login email")
	add.Flags().StringVar(&params.Password, "password", "", "initial password")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)

	return cmd
}
