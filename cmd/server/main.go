package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lojabot/backend/config"
	httpDelivery "github.com/lojabot/backend/internal/delivery/http"
	"github.com/lojabot/backend/internal/domain"
	"github.com/lojabot/backend/internal/infrastructure/assistant"
	"github.com/lojabot/backend/internal/infrastructure/catalog"
	"github.com/lojabot/backend/internal/infrastructure/postgres"
	"github.com/lojabot/backend/internal/infrastructure/session"
	"github.com/lojabot/backend/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Environment != "production" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting lojabot backend v1.0.0")

	// Message persistence
	sqldb := postgres.Connect(cfg.Database.DSN)
	db := postgres.NewDB(sqldb, cfg.Database.Debug)
	defer db.Close()

	messages := postgres.NewMessageRepository(db)
	if err := messages.Init(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize message store")
	}

	// Product catalog, loaded once; a load failure degrades to an empty
	// catalog instead of refusing to start
	products, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Error().Err(err).Msg("failed to load catalog, serving with empty catalog")
		products = nil
	}

	// Remote assistant; missing credentials switch the backend to
	// local-search-only mode
	var assistantClient domain.AssistantClient
	if cfg.OpenAI.Enabled() {
		client := assistant.NewClient(assistant.Config{
			APIKey:       cfg.OpenAI.APIKey,
			AssistantID:  cfg.OpenAI.AssistantID,
			BaseURL:      cfg.OpenAI.BaseURL,
			PollInterval: cfg.OpenAI.PollInterval,
			PollTimeout:  cfg.OpenAI.PollTimeout,
		})
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		assistantClient = client
		log.Info().Str("assistant_id", cfg.OpenAI.AssistantID).Msg("OpenAI assistant configured")
	} else {
		log.Warn().Msg("OPENAI_API_KEY or ASSISTANT_ID not set, assistant integration disabled")
	}

	// Usecase layer
	search := usecase.NewSearchService(usecase.SearchConfig{
		EnableDebugLogging: cfg.Search.EnableDebugLogging,
	})
	chatService := usecase.NewChatService(messages, assistantClient, search, products)

	// Sessions: static tokens registered from configuration
	sessions := session.NewMemoryStore()
	for token, userID := range cfg.Auth.StaticTokens {
		sessions.Register(token, userID)
	}
	log.Info().Int("sessions", sessions.Size()).Msg("session store initialized")

	// HTTP delivery
	handler := httpDelivery.NewHandler(chatService, cfg.Proxy.Timeout)
	router := httpDelivery.SetupRouter(cfg, handler, sessions)

	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
