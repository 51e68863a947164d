package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pravobot/pravobot/internal/assist"
	"github.com/pravobot/pravobot/internal/bitrix"
	"github.com/pravobot/pravobot/internal/cache"
	"github.com/pravobot/pravobot/internal/config"
	httpapp "github.com/pravobot/pravobot/internal/http"
	"github.com/pravobot/pravobot/internal/http/handlers"
	"github.com/pravobot/pravobot/internal/logging"
	"github.com/pravobot/pravobot/internal/metrics"
	"github.com/pravobot/pravobot/internal/registry"
	"github.com/pravobot/pravobot/internal/registry/dadata"
	"github.com/pravobot/pravobot/internal/secrets"
	"github.com/pravobot/pravobot/internal/store"
	"github.com/pravobot/pravobot/internal/telegram"
	"github.com/pravobot/pravobot/internal/worker"
	"github.com/spf13/cobra"
)

// credentialStore is satisfied by both the Postgres token store and the
// in-memory fallback.
type credentialStore interface {
	bitrix.Store
	Domains(ctx context.Context) ([]string, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook HTTP server and background credential refresh.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithOptions(config.LoadOptions{RequireTelegram: true})
	if err != nil {
		return err
	}
	if opts := secrets.FromEnv(); opts.Enabled() {
		if err := secrets.Fill(ctx, &cfg, opts); err != nil {
			return err
		}
	}

	logger, err := logging.BootstrapFromEnv("serve", os.Stderr)
	if err != nil {
		return err
	}

	bot, err := telegram.NewClient(cfg.TelegramBotToken, "", nil)
	if err != nil {
		return err
	}

	engine := &assist.Engine{
		Bot:          bot,
		HistoryLimit: cfg.HistoryLimit,
		AllowedChats: cfg.AllowedChatIDs,
		Log:          logger,
	}

	// Without a database, tokens live in memory and chat history is off.
	var tokens credentialStore = bitrix.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		tokens = &store.TokenStore{Pool: pool}
		engine.Memory = &store.HistoryStore{Pool: pool}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory credential store and no chat history")
	}

	if cfg.DadataToken != "" {
		recordCache := cache.New[string, registry.Record](cfg.LookupCacheSize, cfg.LookupCacheTTL)
		lookups, err := dadata.NewClient(dadata.Config{
			Token:   cfg.DadataToken,
			Secret:  cfg.DadataSecret,
			BaseURL: cfg.DadataBaseURL,
		}, nil, recordCache)
		if err != nil {
			return err
		}
		engine.Registry = lookups
	} else {
		logger.Warn("DADATA_TOKEN not set, counterparty lookups disabled")
	}

	var auth handlers.Authorizer
	if cfg.BitrixConfigured() {
		manager, err := bitrix.NewManager(bitrix.Config{
			Domain:       cfg.BitrixDomain,
			ClientID:     cfg.BitrixClientID,
			ClientSecret: cfg.BitrixClientSecret,
			RedirectURL:  cfg.BitrixRedirectURL,
		}, tokens, nil, nil)
		if err != nil {
			return err
		}
		auth = manager
		engine.Workspace = &bitrix.APIClient{Manager: manager}

		refresher := &worker.Refresher{
			Source:  tokens,
			Manager: manager,
			Window:  cfg.RefreshWindow,
			Log:     logger,
		}
		scheduler := worker.Scheduler{Runner: refresher, Interval: cfg.RefreshInterval}
		go scheduler.Run(ctx)
	} else {
		logger.Warn("workspace integration not configured, OAuth routes disabled")
	}

	metrics.StartServer(ctx, cfg.MetricsAddr)

	srv, err := httpapp.NewEchoServer(cfg, engine, engine, auth)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
