package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jkralik/kaktus-notify/app/api"
	"github.com/jkralik/kaktus-notify/app/bot"
	"github.com/jkralik/kaktus-notify/app/cfg"
	"github.com/jkralik/kaktus-notify/app/config"
	"github.com/jkralik/kaktus-notify/app/database"
	"github.com/jkralik/kaktus-notify/app/scraper"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Kaktus Notify", "version", appCfg.Version)

	profile, err := config.Load(appCfg.ProfileFile)
	if err != nil {
		slog.Error("Failed to load scrape profile", "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	subscriberRepo := database.NewSubscriberRepository(db)
	postRepo := database.NewPostRepository(db)

	// The long poll holds the connection open for updatesTimeout seconds, so
	// the bot client needs a more generous HTTP timeout than the send path.
	sendClient := bot.NewClient(appCfg.TelegramAPIURL, appCfg.BotToken,
		&http.Client{Timeout: 30 * time.Second})
	pollClient := bot.NewClient(appCfg.TelegramAPIURL, appCfg.BotToken,
		&http.Client{Timeout: 50 * time.Second})

	commandBot := bot.NewBot(pollClient, subscriberRepo, profile.Messages)
	commandBot.Start()
	defer commandBot.Stop()
	slog.Info("Telegram command bot started")

	notifier := bot.NewNotifier(sendClient, subscriberRepo, subscriberRepo.Deactivate,
		profile.Messages)

	fetcher := scraper.NewFetcher(
		&http.Client{Timeout: time.Duration(appCfg.FetchTimeout) * time.Second},
		appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeout)*time.Second)
	extractor := scraper.NewExtractor(profile.Scraper, appCfg.Location())

	monitor := scraper.NewMonitor(scraper.MonitorConfig{
		URL:            appCfg.ScrapeURL,
		Interval:       time.Duration(appCfg.CheckInterval) * time.Second,
		FailureBackoff: time.Duration(appCfg.FailureBackoff) * time.Second,
	}, fetcher, extractor, postRepo, notifier.HandleNewPost)
	monitor.Start()
	defer monitor.Stop()
	slog.Info("Page monitor started",
		"url", appCfg.ScrapeURL,
		"interval", appCfg.CheckInterval,
		"timezone", appCfg.Timezone)

	apiHandler := api.NewHandler(subscriberRepo, postRepo, monitor)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Kaktus Notify started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Monitor and bot are stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
