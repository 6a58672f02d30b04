// Command xcelctl signs in to the xcel API and shows the profile screen in
// the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xcel/profile/internal/apiclient"
	"github.com/xcel/profile/internal/tokenstore"
)

var (
	apiURL     string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "xcelctl",
	Short:         "Terminal client for xcel profiles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default from config, then "+apiclient.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/xcel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(loginCmd, profileCmd, logoutCmd, whoamiCmd)
}

// env is what every subcommand needs: the API, local storage and a logger.
type env struct {
	cfg    cliConfig
	client *apiclient.Client
	store  *tokenstore.SQLite
	log    *zap.Logger
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	log := zap.NewNop()
	if verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	storePath := cfg.StorePath
	if storePath == "" {
		if storePath, err = tokenstore.DefaultPath(); err != nil {
			return nil, fmt.Errorf("failed to locate storage: %w", err)
		}
	}
	store, err := tokenstore.Open(ctx, storePath)
	if err != nil {
		return nil, err
	}

	log.Debug("xcelctl configured", zap.String("api", cfg.APIURL), zap.String("store", storePath))
	return &env{cfg: cfg, client: apiclient.New(cfg.APIURL), store: store, log: log}, nil
}

func (e *env) Close() {
	_ = e.store.Close()
	_ = e.log.Sync()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
