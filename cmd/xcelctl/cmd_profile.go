package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/xcel/profile/internal/profileview"
	"github.com/xcel/profile/internal/tokenstore"
	"github.com/xcel/profile/internal/tui"
)

var profileToken string

var profileCmd = &cobra.Command{
	Use:   "profile [location]",
	Short: "Open the profile screen",
	Long: `Open the profile screen in the terminal.

The location plays the part of the page URL, e.g. xcel://profile?token=...
or just ?token=.... Without one, --token is used, then the stored token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		loc, err := resolveLocation(ctx, arg, profileToken, e.store)
		if err != nil {
			return err
		}

		nav := tui.NewNavigator()
		view := profileview.New(e.client, e.store, nav, profileview.WithLogger(e.log))
		model := tui.New(ctx, view, nav, tui.Config{
			Location:     loc,
			ImageBaseURL: e.client.BaseURL(),
			Probe:        tui.HTTPProbe(http.DefaultClient),
		})

		final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		if m, ok := final.(tui.Model); ok && m.SignedOut() {
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out. Run `xcelctl login` to sign in.")
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileToken, "token", "", "token to put in the location")
}

// resolveLocation picks the location handed to the view. An explicit
// location wins, then --token, then the token in local storage.
func resolveLocation(ctx context.Context, arg, token string, store tokenstore.Store) (*url.URL, error) {
	if arg != "" {
		if strings.HasPrefix(arg, "?") {
			arg = "xcel://profile" + arg
		}
		u, err := url.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid location %q: %w", arg, err)
		}
		return u, nil
	}

	if token == "" {
		stored, err := store.GetItem(ctx, profileview.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read stored token: %w", err)
		}
		token = stored
	}

	u := &url.URL{Scheme: "xcel", Host: "profile"}
	if token != "" {
		u.RawQuery = url.Values{profileview.TokenKey: {token}}.Encode()
	}
	return u, nil
}
