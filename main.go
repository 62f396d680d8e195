package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uthayarahavan/google-form-automation/internal/feat/console"
	"github.com/Uthayarahavan/google-form-automation/internal/feat/survey"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/app"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/forms"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/llm"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/mail"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/middleware"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/surveyapi"
	"github.com/go-chi/chi/v5"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level)

	log.Infof("Starting form automation service [%s mode]", cfg.Env)

	formsClient := forms.NewClient(cfg.Forms.BaseURL, cfg.Forms.AccessToken, cfg.Forms.MockMode, log)
	if formsClient.MockMode() {
		log.Info("Forms provider running in mock mode, form URLs will be simulated")
	}

	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature)
	if !llmClient.IsConfigured() {
		log.Info("LLM API key not set, AI email generation will fail until configured")
	}

	mailClient := mail.NewClient(cfg.Mail.RelayURL, cfg.Mail.From, log)

	store := survey.NewStore()
	surveyService := survey.NewService(store, formsClient, mailClient, llmClient, cfg, log)
	surveyHandler := survey.NewHandler(surveyService, cfg, log)

	upstreamTimeout, err := time.ParseDuration(cfg.Upstream.Timeout)
	if err != nil {
		upstreamTimeout = 30 * time.Second
	}
	apiClient := surveyapi.NewClient(cfg.Upstream.BaseURL, upstreamTimeout, log)

	consoleService := console.NewService(apiClient, cfg, log)
	consoleHandler := console.NewHandler(consoleService, cfg, log)

	router := chi.NewRouter()
	middleware.DefaultStack(router)

	deps := []any{surveyService, surveyHandler, consoleService, consoleHandler}

	starts, stops, registrars := app.Setup(ctx, router, deps...)
	if err := app.Start(ctx, log, starts, stops, registrars, router); err != nil {
		log.Errorf("Startup failed: %v", err)
		os.Exit(1)
	}

	go app.Serve(router, cfg.Server.Addr)
	log.Infof("Server listening on %s", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Stop(ctx, log, stops)
	log.Info("Server stopped")
}
