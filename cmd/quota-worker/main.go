package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"github.com/gasgenie/gasgenie-service/internal/lease"
	"github.com/gasgenie/gasgenie-service/internal/quota"
	mediaService "github.com/gasgenie/gasgenie-service/internal/services/media"
	"github.com/gasgenie/gasgenie-service/internal/storage/postgres"
	"github.com/go-redis/redis/v8"
)

type Enforcer interface {
	EnforceQuota(ctx context.Context) (quota.EnforceResult, error)
}

// QuotaWorker periodically brings photo storage back under its budget, so uploads rarely
// have to evict inline.
type QuotaWorker struct {
	enforcer Enforcer
	interval time.Duration
	logger   *slog.Logger
}

func NewQuotaWorker(enforcer Enforcer, interval time.Duration, logger *slog.Logger) *QuotaWorker {
	return &QuotaWorker{
		enforcer: enforcer,
		interval: interval,
		logger:   logger,
	}
}

func (qw *QuotaWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(qw.interval)
	defer ticker.Stop()

	qw.logger.Info("Quota worker started",
		"interval", qw.interval.String())

	// Run once immediately on startup
	qw.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			qw.logger.Info("Quota worker shutting down")
			return
		case <-ticker.C:
			qw.runOnce(ctx)
		}
	}
}

func (qw *QuotaWorker) runOnce(ctx context.Context) {
	startTime := time.Now()

	res, err := qw.enforcer.EnforceQuota(ctx)
	if err != nil {
		if errors.Is(err, quota.ErrLeaseBusy) {
			qw.logger.Info("Skipping quota check, another run holds the lease")
			return
		}
		qw.logger.Error("Quota check failed",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	duration := time.Since(startTime)
	if res.Eviction == nil {
		qw.logger.Info("Storage within quota",
			"percentage", res.Snapshot.Percentage,
			"object_count", res.Snapshot.ObjectCount,
			"duration_ms", duration.Milliseconds())
		return
	}

	qw.logger.Info("Completed quota eviction",
		"percentage", res.Snapshot.Percentage,
		"photos_deleted", res.Eviction.DeletedCount,
		"failed", res.Eviction.Failed,
		"start_bytes", res.Eviction.StartBytes,
		"end_bytes", res.Eviction.EndBytes,
		"duration_ms", duration.Milliseconds(),
		"duration", duration.String())
}

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := postgres.NewPostgres(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer storage.Close()
	slog.Info("Connected to Postgres database")

	photos, err := mediaService.NewService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	limits, err := quota.LimitsFromConfig(cfg.Quota)
	if err != nil {
		log.Fatal("Invalid quota configuration:", err)
	}

	gate := quota.NewGate(photos, storage,
		lease.NewManager(redisClient, cfg.Quota.LeaseTTL, cfg.Quota.LeaseWait),
		limits, cfg.Quota.Namespace, logger)

	worker := NewQuotaWorker(gate, cfg.Quota.WorkerInterval, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	worker.Start(ctx)

	slog.Info("Quota worker stopped")
}
