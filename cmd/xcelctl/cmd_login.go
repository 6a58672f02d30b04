package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcel/profile/internal/profileview"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the token in local storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		token, err := e.client.Login(ctx, loginEmail, loginPassword)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := e.store.SetItem(ctx, profileview.TokenKey, token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Signed in as", loginEmail)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
