package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcel/profile/internal/profileview"
	"github.com/xcel/profile/internal/tui"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		view := profileview.New(e.client, e.store, tui.NewNavigator(), profileview.WithLogger(e.log))
		view.Logout(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}
