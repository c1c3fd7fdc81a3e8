// Package app assembles the bot from config and runs it, either as a single
// pass or on an interval.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platcorn/newsbot/internal/config"
	"github.com/platcorn/newsbot/internal/feeds"
	"github.com/platcorn/newsbot/internal/gemini"
	"github.com/platcorn/newsbot/internal/health"
	"github.com/platcorn/newsbot/internal/logger"
	"github.com/platcorn/newsbot/internal/pipeline"
	"github.com/platcorn/newsbot/internal/scraper"
	"github.com/platcorn/newsbot/internal/store"
	"github.com/platcorn/newsbot/internal/telegram"
	"github.com/platcorn/newsbot/internal/translate"
)

// Run loads configuration, wires every collaborator and drives the pipeline
// until the context is cancelled or, in run-once mode, until one pass ends.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	catalog, err := feeds.LoadCatalog(cfg.FeedsConfigPath)
	if err != nil {
		return fmt.Errorf("load feed catalog: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open seen store: %w", err)
	}
	defer st.Close()

	var snapshot *store.LinkSnapshot
	if cfg.LinkSnapshotPath != "" {
		snapshot = store.NewLinkSnapshot(cfg.LinkSnapshotPath)
		if err := snapshot.Load(); err != nil {
			logger.Warn("link snapshot unreadable, starting empty", "path", cfg.LinkSnapshotPath, "error", err)
		}
	}

	var notifier pipeline.Notifier
	if cfg.Notifications() {
		notifier = telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout)
	} else {
		logger.Warn("telegram credentials missing, dispatch disabled")
		notifier = telegram.NewNoopNotifier()
	}

	var enricher pipeline.AIEnricher
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini unavailable, using extractive summaries", "error", err)
		} else {
			defer client.Close()
			enricher = client
		}
	}

	p := pipeline.New(cfg, catalog, pipeline.Deps{
		Source:     feeds.NewSource(cfg.RequestTimeout, cfg.MaxItemsPerFeed),
		Fetcher:    scraper.NewFetcher(cfg.RequestTimeout),
		Translator: translate.NewTranslator(cfg.RequestTimeout, catalog.ProperNouns, cfg.OpenAIAPIKey),
		Enricher:   enricher,
		Notifier:   notifier,
		Store:      st,
		Snapshot:   snapshot,
	})

	hc := health.NewSignal(cfg.HealthcheckURL)

	if cfg.RunOnce {
		return runPass(ctx, p, hc)
	}

	logger.Info("starting loop", "interval", cfg.Interval.String())
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	if err := runPass(ctx, p, hc); err != nil {
		logger.Error("run failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			if err := runPass(ctx, p, hc); err != nil {
				logger.Error("run failed", "error", err)
			}
		}
	}
}

func runPass(ctx context.Context, p *pipeline.Pipeline, hc *health.Signal) error {
	hc.Start(ctx)
	report, err := p.RunOnce(ctx)
	if err != nil {
		hc.Fail(ctx)
		return err
	}
	hc.Success(ctx)
	logger.Debug("pass complete", "dispatched", report.Dispatched)
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		return store.OpenPostgres(cfg.DatabaseURL)
	}
	return store.OpenSQLite(cfg.SeenDBPath)
}
