package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/15-040-GianIvander/tugas-individu3/db"
	"github.com/15-040-GianIvander/tugas-individu3/internal/analysis"
	"github.com/15-040-GianIvander/tugas-individu3/internal/config"
	"github.com/15-040-GianIvander/tugas-individu3/internal/logging"
	"github.com/15-040-GianIvander/tugas-individu3/internal/repository"
	"github.com/15-040-GianIvander/tugas-individu3/internal/worker"
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

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	acfg := cfg.Analysis()
	queue := db.NewQueue(redisClient, db.ReanalyzeQueueKey)

	reanalyzer := worker.NewReanalyzer(
		repository.NewReviewRepository(conn),
		analysis.New(acfg),
		acfg,
		queue,
		db.NewQueue(redisClient, db.DeadLetterKey),
		cfg.ReanalyzeMaxRetries,
		cfg.ReanalyzeBackoff,
	)

	pending, err := queue.Len(ctx)
	if err != nil {
		slog.Warn("error reading queue length", "error", err)
	}
	slog.Info("reanalyzer started", "queue", db.ReanalyzeQueueKey, "pending", pending, "max_retries", cfg.ReanalyzeMaxRetries)

	if err := reanalyzer.Run(ctx); err != nil {
		log.Fatalf("reanalyzer stopped: %v", err)
	}

	slog.Info("reanalyzer stopping")
}
