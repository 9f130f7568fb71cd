package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/llm"
	"github.com/priyanshupaikra/Inter-AI/internal/adapter/transcribe"
	"github.com/priyanshupaikra/Inter-AI/internal/config"
	"github.com/priyanshupaikra/Inter-AI/internal/logging"
	"github.com/priyanshupaikra/Inter-AI/internal/policy"
	"github.com/priyanshupaikra/Inter-AI/internal/registry"
	"github.com/priyanshupaikra/Inter-AI/internal/repository"
	"github.com/priyanshupaikra/Inter-AI/internal/service"
	"github.com/priyanshupaikra/Inter-AI/internal/telemetry"
	server "github.com/priyanshupaikra/Inter-AI/internal/transport/http"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	log.Info().
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.DSN).
		Strs("engine_order", cfg.Engines.Order).
		Strs("engines_disabled", cfg.Engines.Disabled).
		Msg("starting interview service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer("interview-service")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize tracer")
		}
		defer shutdown(context.Background())
	}

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Initialize engine admission policy
	policyEngine, err := policy.NewEngineFromFile(ctx, cfg.Engines.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	candidates := llm.NewCandidates(cfg.Engines.Order,
		llm.GeminiOptions{
			APIKey:      cfg.Gemini.APIKey,
			BaseURL:     cfg.Gemini.BaseURL,
			Model:       cfg.Gemini.Model,
			Temperature: cfg.Gemini.Temperature,
			MaxTokens:   cfg.Gemini.MaxTokens,
			Timeout:     cfg.Engines.ProviderTimeout,
		},
		llm.OpenAIOptions{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Timeout:     cfg.Engines.ProviderTimeout,
		},
	)
	factory := llm.NewFactory(candidates, policyEngine, cfg.Engines.Disabled)

	var transcriber transcribe.Transcriber = transcribe.Disabled{}
	if cfg.OpenAI.APIKey != "" {
		transcriber = transcribe.NewWhisper(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.TranscriptionModel)
	} else {
		log.Warn().Msg("no OpenAI API key configured, audio transcription is disabled")
	}

	// Initialize service
	svc := service.New(db, factory, registry.New(), service.WithTranscriber(transcriber))

	e := server.NewServer(svc, cfg.WebSocket)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info().Str("addr", addr).Msg("HTTP API listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down interview service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("interview service stopped with error")
		return
	}
	log.Info().Msg("interview service stopped")
}
