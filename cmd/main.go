package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"misbar/config"
	"misbar/internal/api/httpapi"
	"misbar/internal/api/telegram"
	app "misbar/internal/application"
	"misbar/internal/container"
	"misbar/internal/domain/catalog"
	"misbar/internal/infrastructure/storage"
	"misbar/internal/infrastructure/vision"
	mlog "misbar/internal/log"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("misbar stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := mlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	mlog.Setup(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Источник панелей: фикстура в памяти или SQLite
	panels, closePanels, err := container.OpenPanels(ctx, cfg, time.Now())
	if err != nil {
		return fmt.Errorf("open panel source: %w", err)
	}
	defer closePanels()

	cat := catalog.Default()
	appContainer := container.New(container.Deps{
		Panels:        panels,
		Users:         storage.NewMemoryUserRepository(),
		Detector:      vision.NewCannedDetector(cfg.AIDelay),
		Highlighter:   vision.NewGoCVHighlighter(cat),
		Describer:     vision.NewCatalogDescriber(cat),
		Catalog:       cat,
		Location:      cfg.Location,
		DefaultLocale: catalog.ParseLocale(cfg.DefaultLocale),
	})

	hub := httpapi.NewHub()
	defer hub.Close()

	mux := http.NewServeMux()
	httpapi.NewServer(appContainer, hub).RegisterRoutes(mux)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http api listening", "addr", cfg.HTTPAddr, "source", cfg.PanelSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return appContainer.LiveFeed.Run(ctx, cfg.LiveInterval, func(f app.Frame) {
			hub.Broadcast(httpapi.WSMessage{Type: "frame", Payload: f})
		})
	})

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		g.Go(func() error {
			slog.Info("bot is running")
			return bot.Run(ctx)
		})
	} else {
		slog.Warn("TELEGRAM_TOKEN is empty, bot disabled")
	}

	return g.Wait()
}
