package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kidzcarehub/internal/config"
	"kidzcarehub/internal/core"
	httpserver "kidzcarehub/internal/http"
	"kidzcarehub/internal/lang"
	"kidzcarehub/internal/llm"
	"kidzcarehub/internal/logger"
	"kidzcarehub/internal/session"
	"kidzcarehub/internal/speech"
	"kidzcarehub/internal/translate"
	"kidzcarehub/pkg"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logg, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()
	logg = logg.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Environment))

	sessions, closeSessions := newSessionStore(cfg, logg)
	defer closeSessions()

	// Initialize the adapters the pipeline talks to.
	translator := translate.NewLibreTranslate(cfg.Translate.BaseURL, cfg.Translate.APIKey, cfg.Translate.Timeout())
	detectLangs := make([]pkg.LanguageCode, 0, len(cfg.Detect.Languages))
	for _, code := range cfg.Detect.Languages {
		detectLangs = append(detectLangs, pkg.LanguageCode(code))
	}
	detector, err := lang.NewWhatlangDetector(lang.Options{
		Languages:     detectLangs,
		MinConfidence: cfg.Detect.MinConfidence,
	})
	if err != nil {
		logg.Fatal("failed to build language detector", zap.Error(err))
	}
	assistant := core.NewAssistant(
		detector,
		translator,
		llm.NewOpenAIClient(llm.Options{
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			BaseURL:     cfg.OpenAI.BaseURL,
		}),
		logg.Named("assistant"),
	)

	srv, err := httpserver.NewServer(httpserver.Deps{
		Assistant: assistant,
		Speech:    speech.NewGoogleTTS(cfg.Speech.BaseURL, cfg.Speech.Timeout(), cfg.Speech.TempDir),
		Languages: translator,
		Sessions:  sessions,
		Log:       logg.Named("http"),
	}, httpserver.Options{
		MaxRequestsPerSecond: cfg.App.MaxRequestsPerSecond,
		RequestTimeout:       cfg.App.RequestTimeout(),
	})
	if err != nil {
		logg.Fatal("failed to construct server", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logg.Info("listening", zap.String("addr", server.Addr), zap.String("model", cfg.OpenAI.Model))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logg.Info("shutting down, waiting for in-flight requests")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logg.Error("forced shutdown", zap.Error(err))
	}
}

// newSessionStore returns a Redis-backed store when an address is configured
// and an in-process one otherwise.
func newSessionStore(cfg *config.Config, logg *zap.Logger) (session.Store, func()) {
	if cfg.Redis.Address == "" {
		logg.Info("session preferences kept in memory")
		return session.NewMemoryStore(cfg.Redis.SessionTTL()), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logg.Fatal("failed to ping redis", zap.String("addr", cfg.Redis.Address), zap.Error(err))
	}
	logg.Info("session preferences kept in redis", zap.String("addr", cfg.Redis.Address))
	return session.NewRedisStore(client, cfg.Redis.SessionTTL()), func() { _ = client.Close() }
}
