// Driveline conversational assistant server — loads the vehicle datasets,
// wires the LLM gateway and tool registry, and serves the chat API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/driveline-ai/driveline/pkg/agent"
	"github.com/driveline-ai/driveline/pkg/api"
	"github.com/driveline-ai/driveline/pkg/booking"
	"github.com/driveline-ai/driveline/pkg/bot"
	"github.com/driveline-ai/driveline/pkg/catalog"
	"github.com/driveline-ai/driveline/pkg/config"
	"github.com/driveline-ai/driveline/pkg/embedding"
	"github.com/driveline-ai/driveline/pkg/ev"
	"github.com/driveline-ai/driveline/pkg/faq"
	"github.com/driveline-ai/driveline/pkg/llm"
	"github.com/driveline-ai/driveline/pkg/router"
	"github.com/driveline-ai/driveline/pkg/session"
	"github.com/driveline-ai/driveline/pkg/slack"
	"github.com/driveline-ai/driveline/pkg/toolkit"
	"github.com/driveline-ai/driveline/pkg/tools"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configFile := flag.String("config",
		getEnv("DRIVELINE_CONFIG", "./config/driveline.yaml"),
		"Path to configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	}

	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.Initialize(*configFile)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Datasets
	cars, err := catalog.LoadDir(catalog.KindCar, cfg.Data.CarsDir)
	if err != nil {
		slog.Error("Failed to load car catalog", "dir", cfg.Data.CarsDir, "error", err)
		os.Exit(1)
	}
	bikes, err := catalog.LoadDir(catalog.KindBike, cfg.Data.BikesDir)
	if err != nil {
		slog.Error("Failed to load bike catalog", "dir", cfg.Data.BikesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Catalogs loaded", "cars", cars.Len(), "bikes", bikes.Len())

	evService, err := ev.Load(cfg.Data.PincodesFile, cfg.Data.StationsFile)
	if err != nil {
		slog.Error("Failed to load EV charger data", "error", err)
		os.Exit(1)
	}

	// 3. FAQ index (embeds the corpus on first run, then reuses the cache)
	records, err := faq.LoadRecords(cfg.Data.FAQFile)
	if err != nil {
		slog.Error("Failed to load FAQ records", "path", cfg.Data.FAQFile, "error", err)
		os.Exit(1)
	}
	faqService := faq.New(records, embedding.NewClient(cfg.Embedding))
	if err := faqService.Init(ctx, cfg.Data.FAQCache); err != nil {
		slog.Error("Failed to build FAQ index", "error", err)
		os.Exit(1)
	}
	slog.Info("FAQ index ready", "records", len(records))

	// 4. Booking state machine and Slack notifications
	bookingService := booking.New()
	slackService := slack.NewService(cfg.Slack)
	if slackService == nil {
		slog.Info("Slack notifications disabled")
	}

	// 5. LLM gateway
	llmClient := llm.NewOpenAIClient(cfg.LLM)
	defer func() {
		if err := llmClient.Close(); err != nil {
			slog.Error("Error closing LLM client", "error", err)
		}
	}()
	gateway := llm.NewGateway(llmClient)
	slog.Info("LLM client initialized", "base_url", cfg.LLM.BaseURL, "model", cfg.LLM.Model)

	// 6. Tool registry
	registry := tools.NewRegistry()
	if err := toolkit.Register(registry, toolkit.Deps{
		Cars:    cars,
		Bikes:   bikes,
		FAQ:     faqService,
		Booking: bookingService,
		EV:      evService,
		Slack:   slackService,
	}); err != nil {
		slog.Error("Failed to register tools", "error", err)
		os.Exit(1)
	}

	// 7. Router + agent loop + bot
	assistant, err := bot.New(
		router.NewRouter(gateway),
		agent.NewRunner(gateway, cfg.Agent.MaxIterations),
		registry,
	)
	if err != nil {
		slog.Error("Failed to assemble bot", "error", err)
		os.Exit(1)
	}

	// 8. HTTP server
	sessions := session.NewManager()
	server := api.NewServer(assistant, sessions, bookingService)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Addr); err != nil {
			errCh <- err
		}
	}()
	slog.Info("Driveline started", "addr", cfg.Server.Addr)

	// 9. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
