package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"vocabquiz/internal/catalog"
	"vocabquiz/internal/config"
	"vocabquiz/internal/database"
	"vocabquiz/internal/handlers"
	"vocabquiz/internal/logging"
	"vocabquiz/internal/quiz"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
	"vocabquiz/internal/templates"
	"vocabquiz/internal/ws"
)

const (
	quizIdleTimeout   = time.Hour
	quizPruneInterval = 10 * time.Minute
	limiterInterval   = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Server.LogLevel, cfg.Server.LogPretty)
	if cfg.Security.GeneratedSecret {
		logger.Warn().Msg("no csrf secret configured; generated one for this process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, closeDB, err := catalogProvider(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare topic catalog")
	}
	defer closeDB()

	catalogService, err := service.NewCatalogService(ctx, provider, cfg.Quiz.PageSize, logger.With().Str("component", "catalog").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load topic catalog")
	}

	tmpl, err := templates.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}
	log.Info().Msg("templates loaded successfully")

	hub := ws.NewHub(logger.With().Str("component", "ws").Logger())
	go hub.Run(ctx)

	quizService := service.NewQuizService(catalogService, service.QuizConfig{
		Delays: quiz.Delays{
			Correct:   cfg.Quiz.CorrectDelay,
			Incorrect: cfg.Quiz.IncorrectDelay,
		},
		MaxQuestions: cfg.Quiz.MaxQuestions,
		Notifier:     hub,
		Logger:       logger.With().Str("component", "quiz").Logger(),
	})

	limiter := security.NewRateLimiter(cfg.Security.SubmitRate, cfg.Security.SubmitWindow)
	go limiter.Run(ctx, limiterInterval)
	go pruneIdleQuizzes(ctx, quizService)

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:    logger,
		Catalog:   catalogService,
		Quizzes:   quizService,
		CSRF:      security.NewCSRFGenerator(cfg.Security.CSRFSecret),
		Limiter:   limiter,
		Templates: tmpl,
		WebSocket: ws.NewHandler(hub, quizService, logger.With().Str("component", "ws").Logger()),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Int("active_quizzes", quizService.ActiveCount()).Msg("server stopped")
}

// catalogProvider returns the configured topic source. The database source
// is migrated and, when enabled, seeded with the built-in topics.
func catalogProvider(ctx context.Context, cfg *config.Config) (catalog.Provider, func(), error) {
	if cfg.Catalog.Source != "database" {
		log.Info().Msg("serving built-in topic catalog")
		return catalog.BuiltinProvider(), func() {}, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("type", cfg.Database.Type).Msg("database connection established")

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	if cfg.Catalog.Seed {
		if _, err := db.SeedTopics(ctx, catalog.Builtin()); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
	return repository.NewTopicRepository(db), closeDB, nil
}

// pruneIdleQuizzes periodically drops quizzes abandoned without a cancel
func pruneIdleQuizzes(ctx context.Context, quizzes *service.QuizService) {
	ticker := time.NewTicker(quizPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := quizzes.PruneIdle(quizIdleTimeout); n > 0 {
				log.Info().Int("count", n).Msg("pruned idle quizzes")
			}
		}
	}
}
