package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/config"
	"github.com/noah-isme/aita-go-api/internal/database"
	"github.com/noah-isme/aita-go-api/internal/handler"
	applogger "github.com/noah-isme/aita-go-api/internal/logger"
	"github.com/noah-isme/aita-go-api/internal/middleware"
	"github.com/noah-isme/aita-go-api/internal/router"
	"github.com/noah-isme/aita-go-api/internal/service"
	"github.com/noah-isme/aita-go-api/internal/utils"
	"github.com/noah-isme/aita-go-api/pkg/ai"
	"github.com/noah-isme/aita-go-api/pkg/events"
	"github.com/noah-isme/aita-go-api/pkg/googleauth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := applogger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("service", cfg.AppName).Logger()

	validate := validator.New(validator.WithRequiredStructEnabled())

	var verifier service.TokenVerifier
	if cfg.GoogleClientID == "" {
		logger.Warn().Msg("GOOGLE_CLIENT_ID not set. /api/auth/verify will reject requests.")
	} else {
		googleVerifier, err := googleauth.NewVerifier(context.Background(), googleauth.Config{
			ClientID:   cfg.GoogleClientID,
			CertsURL:   cfg.GoogleCertsURL,
			HTTPClient: &http.Client{Timeout: 10 * time.Second},
			Logger:     logger,
		})
		if err != nil {
			log.Fatalf("failed to create google verifier: %v", err)
		}
		defer googleVerifier.Close()
		verifier = googleVerifier
	}

	var completer ai.Completer
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY not set. /api/analyze will reject requests.")
	} else {
		openAI, err := ai.NewOpenAICompleter(ai.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.OpenAIModel,
			BaseURL:   cfg.OpenAIBaseURL,
			MaxTokens: cfg.OpenAIMaxTokens,
			Timeout:   cfg.UpstreamHTTPTimeout,
			Logger:    logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai client: %v", err)
		}
		completer = openAI
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("analysis audit events disabled")
		} else {
			defer conn.Drain()
			publisher = events.NewNATSPublisher(conn, logger)
		}
	}

	authService := service.NewAuthService(verifier, logger)
	analysisService := service.NewAnalysisService(completer, publisher, validate, service.AnalysisConfig{
		DefaultModel: cfg.OpenAIModel,
		EventSubject: cfg.NATSSubject,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.BodyLimitBytes,
		ErrorHandler: utils.ErrorHandler,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.LogFormat == "pretty"})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		AnalysisHandler: handler.NewAnalysisHandler(analysisService, logger),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
