package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/config"
	"github.com/minhvu-dev/calassist/internal/database"
	"github.com/minhvu-dev/calassist/internal/llm"
	"github.com/minhvu-dev/calassist/internal/notify"
	"github.com/minhvu-dev/calassist/internal/pipeline"
	"github.com/minhvu-dev/calassist/internal/server"
)

func main() {
	cfg := config.LoadFromEnv()

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	calClient := initCalendar(cfg)
	gateway := initGateway(cfg)
	notifyService := initNotifyService(cfg)

	asst := pipeline.New(gateway, calClient)

	srv := server.New(server.Config{
		DB:            db,
		CalClient:     calClient,
		Assistant:     asst,
		NotifyService: notifyService,
		Port:          cfg.HTTPPort,
		HistorySize:   cfg.HistorySize,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	waitForShutdown(srv)
}

func initCalendar(cfg *config.Config) *calendar.Client {
	calClient, err := calendar.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
	if err != nil {
		fatal("creating calendar client", err)
	}

	if calClient.IsAuthenticated() {
		fmt.Println("Google Calendar connected")
	} else {
		fmt.Println("Google Calendar not connected. Use /api/auth/connect to authorize.")
	}
	return calClient
}

func initGateway(cfg *config.Config) *llm.Client {
	if cfg.AnthropicAPIKey == "" {
		fmt.Println("Warning: ANTHROPIC_API_KEY not set, assistant requests will fail")
	}
	return llm.NewClient(cfg.AnthropicAPIKey, cfg.Model, cfg.Temperature, cfg.MaxOutputTokens)
}

func initNotifyService(cfg *config.Config) *notify.Service {
	var emailNotifier notify.Notifier
	if cfg.ResendAPIKey != "" {
		emailNotifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.NotifyFrom)
		if emailNotifier != nil && emailNotifier.IsConfigured() {
			fmt.Println("Email confirmation service configured (Resend)")
		}
	}

	return notify.NewService(emailNotifier, cfg.NotifyTo)
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
