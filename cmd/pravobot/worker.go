package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pravobot/pravobot/internal/bitrix"
	"github.com/pravobot/pravobot/internal/config"
	"github.com/pravobot/pravobot/internal/logging"
	"github.com/pravobot/pravobot/internal/metrics"
	"github.com/pravobot/pravobot/internal/secrets"
	"github.com/pravobot/pravobot/internal/store"
	"github.com/pravobot/pravobot/internal/worker"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run only the background credential refresh loop.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorker()
	},
}

func runWorker() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithOptions(config.LoadOptions{RequireDatabaseURL: true})
	if err != nil {
		return err
	}
	if opts := secrets.FromEnv(); opts.Enabled() {
		if err := secrets.Fill(ctx, &cfg, opts); err != nil {
			return err
		}
	}
	if !cfg.BitrixConfigured() {
		return errors.New("BITRIX_DOMAIN, BITRIX_CLIENT_ID and BITRIX_CLIENT_SECRET are required to run the worker")
	}
	if cfg.RefreshInterval <= 0 {
		return errors.New("TOKEN_REFRESH_INTERVAL must be > 0 to run the worker")
	}

	logger, err := logging.BootstrapFromEnv("worker", os.Stderr)
	if err != nil {
		return err
	}

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	tokens := &store.TokenStore{Pool: pool}
	manager, err := bitrix.NewManager(bitrix.Config{
		Domain:       cfg.BitrixDomain,
		ClientID:     cfg.BitrixClientID,
		ClientSecret: cfg.BitrixClientSecret,
		RedirectURL:  cfg.BitrixRedirectURL,
	}, tokens, nil, nil)
	if err != nil {
		return err
	}

	metrics.StartServer(ctx, cfg.MetricsAddr)

	refresher := &worker.Refresher{
		Source:  tokens,
		Manager: manager,
		Window:  cfg.RefreshWindow,
		Log:     logger,
	}
	scheduler := worker.Scheduler{Runner: refresher, Interval: cfg.RefreshInterval}
	scheduler.Run(ctx)
	return nil
}
