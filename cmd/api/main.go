package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/15-040-GianIvander/tugas-individu3/db"
	"github.com/15-040-GianIvander/tugas-individu3/internal/analysis"
	"github.com/15-040-GianIvander/tugas-individu3/internal/cache"
	"github.com/15-040-GianIvander/tugas-individu3/internal/config"
	"github.com/15-040-GianIvander/tugas-individu3/internal/handler"
	"github.com/15-040-GianIvander/tugas-individu3/internal/logging"
	"github.com/15-040-GianIvander/tugas-individu3/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("error running migrations: %v", err)
	}

	reviewRepo := repository.NewReviewRepository(conn)

	acfg := cfg.Analysis()

	var analyzer handler.Analyzer = analysis.New(acfg)
	var requeuer handler.Requeuer

	if cfg.RedisURL != "" {
		redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("error connecting to Redis, cache and reanalysis disabled", "error", err)
		} else {
			defer redisClient.Close()
			analyzer = cache.NewCachedAnalyzer(analyzer, redisClient, cfg.CacheTTL, acfg)
			requeuer = db.NewQueue(redisClient, db.ReanalyzeQueueKey)
		}
	}

	reviewHandler := handler.NewReviewHandler(reviewRepo, analyzer, requeuer, acfg, cfg.MaxReviewChars)

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(), gin.Logger())

	allowedOrigins := cfg.AllowedOrigins()
	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", logging.RequestIDHeader},
		ExposeHeaders:    []string{logging.RequestIDHeader, handler.TotalCountHeader},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	api.POST("/analyze-review", reviewHandler.AnalyzeReview)
	api.GET("/reviews", reviewHandler.GetReviews)
	api.GET("/reviews/:id", reviewHandler.GetReview)

	r.GET("/health", reviewHandler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down server", "error", err)
	}
}
