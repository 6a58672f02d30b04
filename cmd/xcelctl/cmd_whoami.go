package main

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/xcel/profile/internal/profileview"
	"github.com/xcel/profile/internal/tui"
)

var errNotSignedIn = errors.New("not signed in; run `xcelctl login`")

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the signed-in profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		token, err := e.store.GetItem(ctx, profileview.TokenKey)
		if err != nil {
			return err
		}

		nav := tui.NewNavigator()
		view := profileview.New(e.client, e.store, nav, profileview.WithLogger(e.log))
		view.Load(ctx, url.Values{profileview.TokenKey: {token}})
		if nav.Path() != "" {
			return errNotSignedIn
		}

		st := view.State()
		if st.ShowError() {
			return errors.New(st.Err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st.Profile)
	},
}
