package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gh-telegram-relay/config"
	_ "gh-telegram-relay/docs" // Swagger docs
	"gh-telegram-relay/internal/httpserver"
	"gh-telegram-relay/internal/notify"
	"gh-telegram-relay/internal/observability"
	"gh-telegram-relay/internal/router"
	"gh-telegram-relay/internal/webhook"
	"gh-telegram-relay/pkg/log"
	"gh-telegram-relay/pkg/telegram"
)

// @title       GitHub Telegram Relay API
// @description Verifies GitHub webhooks and relays them to Telegram chats.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting GitHub Telegram relay...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Routing rules loaded: %d", len(cfg.Routing))

	// 3. Telegram Bot client
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
	telegramBot.SetAPIURL(telegram.BotURL(cfg.Telegram.APIURL, cfg.Telegram.BotToken))
	telegramBot.SetTimeout(cfg.Telegram.Timeout)

	// 4. Metrics
	metrics := observability.NewMetrics(nil)

	// 5. Routing engine
	engine := router.New(logger, cfg.Rules(), notify.NewTelegramSender(telegramBot),
		router.WithObserver(metrics),
	)

	// 6. Webhook handler
	webhookHandler := webhook.NewHandler(engine,
		webhook.SecurityConfig{
			Secret:     cfg.GitHub.WebhookSecret,
			AllowedIPs: cfg.Webhook.AllowedIPs,
		},
		logger,
		webhook.WithObserver(metrics),
		webhook.WithReplayGuard(webhook.ReplayConfig{
			Size:   cfg.Webhook.ReplayCacheSize,
			Window: cfg.Webhook.ReplayWindow,
		}),
	)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:            logger,
		Port:              cfg.HTTPServer.Port,
		Mode:              cfg.HTTPServer.Mode,
		Environment:       cfg.Environment.Name,
		RuleCount:         len(cfg.Routing),
		GitWebhookHandler: webhookHandler,
		Metrics:           metrics,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
