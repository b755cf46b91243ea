package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justsurfingit/korea-job-board/internal/cache"
	"github.com/justsurfingit/korea-job-board/internal/config"
	"github.com/justsurfingit/korea-job-board/internal/database"
	"github.com/justsurfingit/korea-job-board/internal/handlers"
	"github.com/justsurfingit/korea-job-board/internal/middleware"
	"github.com/justsurfingit/korea-job-board/internal/services"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseDebug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	var source store.Source = database.NewTables(db)

	// 2. Optional job listing cache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, serving without job cache")
		} else {
			defer redisClient.Close()
			source = cache.NewJobSource(source, redisClient, cfg.CacheTTL)
			log.Info().Dur("ttl", cfg.CacheTTL).Msg("Job cache enabled")
		}
	}

	// 3. Store
	jobStore := store.New(source)
	if err := jobStore.LoadAll(ctx); err != nil {
		log.Error().Err(err).Msg("Initial load failed, starting with an empty board")
	}
	jobStore.StartRefresher(ctx, cfg.RefreshInterval)

	// 4. Draft extraction
	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Warn().Err(err).Msg("Job draft extraction disabled")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, employer routes will refuse every request")
	}

	// 5. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	handlers.Register(r.Group("/api/v1"), handlers.Deps{
		Store:        jobStore,
		LLMService:   llmService,
		JWTSecret:    cfg.JWTSecret,
		ApplyLimiter: middleware.NewRateLimiter(cfg.ApplyRatePerMinute),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	log.Info().Str("port", cfg.Port).Int("jobs", len(jobStore.Jobs())).Msg("Server started")

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
