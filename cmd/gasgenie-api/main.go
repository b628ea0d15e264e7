package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/gasgenie/gasgenie-service/docs"
	"github.com/gasgenie/gasgenie-service/internal/cache"
	"github.com/gasgenie/gasgenie-service/internal/config"
	"github.com/gasgenie/gasgenie-service/internal/events"
	"github.com/gasgenie/gasgenie-service/internal/http/handlers/diagnosis"
	"github.com/gasgenie/gasgenie-service/internal/http/handlers/documents"
	"github.com/gasgenie/gasgenie-service/internal/http/handlers/jobs"
	"github.com/gasgenie/gasgenie-service/internal/http/handlers/media"
	regulationHandlers "github.com/gasgenie/gasgenie-service/internal/http/handlers/regulations"
	"github.com/gasgenie/gasgenie-service/internal/http/handlers/users"
	"github.com/gasgenie/gasgenie-service/internal/http/handlers/voice"
	wsHandler "github.com/gasgenie/gasgenie-service/internal/http/handlers/websocket"
	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/lease"
	"github.com/gasgenie/gasgenie-service/internal/quota"
	"github.com/gasgenie/gasgenie-service/internal/ratelimit"
	"github.com/gasgenie/gasgenie-service/internal/services/gemini"
	mediaService "github.com/gasgenie/gasgenie-service/internal/services/media"
	"github.com/gasgenie/gasgenie-service/internal/services/pinecone"
	"github.com/gasgenie/gasgenie-service/internal/services/regulations"
	"github.com/gasgenie/gasgenie-service/internal/services/vision"
	"github.com/gasgenie/gasgenie-service/internal/storage/postgres"
	"github.com/gasgenie/gasgenie-service/internal/websocket"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Gas Genie API
// @version 1.0
// @description Job photo storage, diagnosis and regulation search for gas engineers.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad()

	logger := newLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := postgres.NewPostgres(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer storage.Close()
	slog.Info("Connected to Postgres database")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, leases and rate limits will fail open", slog.String("error", err.Error()))
	}

	photos, err := mediaService.NewService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}
	slog.Info("Connected to MinIO", slog.String("bucket", cfg.MinIO.BucketName))

	hub := websocket.NewHub()
	go hub.Run(ctx)
	if err := hub.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		slog.Warn("Failed to register websocket metrics", slog.String("error", err.Error()))
	}

	quotaLimits, err := quota.LimitsFromConfig(cfg.Quota)
	if err != nil {
		log.Fatal("Invalid quota configuration:", err)
	}
	gate := quota.NewGate(photos, storage,
		lease.NewManager(redisClient, cfg.Quota.LeaseTTL, cfg.Quota.LeaseWait),
		quotaLimits, cfg.Quota.Namespace, logger)
	gate.SetNotifier(events.NewEventPublisher(hub))

	geminiClient, err := gemini.New(ctx, cfg.Gemini, nil, logger)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	pineconeClient, err := pinecone.New(cfg.Pinecone, nil, logger)
	if err != nil {
		log.Fatal("Failed to initialize Pinecone client:", err)
	}
	defer pineconeClient.Close()

	regCache := cache.NewRegulationCache(redisClient)
	analyzer := vision.NewAnalyzer(geminiClient, storage, nil, logger)
	searcher := regulations.NewSearcher(geminiClient, pineconeClient, regCache, logger)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	limits := middleware.NewRateLimitConfig(redisClient, cfg.RateLimit)
	photoHandlers := media.NewPhotoHandlers(gate, gate.Estimator(), storage, photos)
	documentHandlers := documents.NewDocumentHandlers(storage)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle("GET /metrics", promhttp.Handler())
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	router.HandleFunc("POST /signup", users.SignUp(storage))
	router.HandleFunc("POST /login", users.Login(storage, cfg.JWTSecret))
	router.HandleFunc("GET /ws", wsHandler.EventsHandler(hub, cfg.JWTSecret))

	router.Handle("POST /photos", auth(limits.RateLimitedHandler(ratelimit.ActionUploads, photoHandlers.Upload())))
	router.Handle("GET /photos", auth(photoHandlers.List()))
	router.Handle("GET /photos/usage", auth(photoHandlers.Usage()))
	router.Handle("PATCH /photos/{id}", auth(photoHandlers.UpdateDescription()))
	router.Handle("DELETE /photos/{id}", auth(photoHandlers.Delete()))

	router.Handle("POST /diagnosis", auth(diagnosis.Diagnose(analyzer)))
	router.Handle("POST /regulations/search", auth(limits.RateLimitedHandler(ratelimit.ActionSearch,
		regulationHandlers.Search(searcher, cfg.Pinecone.TopK))))
	router.Handle("GET /jobs", auth(jobs.List(storage)))
	router.Handle("GET /hours", auth(jobs.Hours(storage)))
	router.Handle("GET /mileage", auth(jobs.Mileage(storage)))

	router.Handle("POST /quotes", auth(documentHandlers.CreateQuote()))
	router.Handle("GET /quotes", auth(documentHandlers.RecentQuotes()))
	router.Handle("POST /invoices", auth(documentHandlers.CreateInvoice()))
	router.Handle("GET /invoices", auth(documentHandlers.RecentInvoices()))
	router.Handle("POST /cp12", auth(documentHandlers.CreateCP12()))
	router.Handle("GET /cp12", auth(documentHandlers.RecentCP12()))
	router.Handle("POST /shares", auth(documentHandlers.CreateShare()))
	router.HandleFunc("GET /shared/{token}", documentHandlers.Shared())
	router.Handle("GET /profile", auth(documentHandlers.GetProfile()))
	router.Handle("PUT /profile", auth(documentHandlers.UpdateProfile()))

	voiceTools := voice.NewToolHandler(searcher, storage)
	router.Handle("POST /voice/tools", voiceTools)
	router.Handle("OPTIONS /voice/tools", voiceTools)

	router.Handle("GET /cache/stats", auth(cache.GetCacheStats(redisClient)))
	router.Handle("DELETE /cache/regulations", auth(cache.InvalidateRegulations(regCache)))
	router.Handle("GET /rate-limits", auth(limits.Status()))

	server := http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server started", slog.String("address", cfg.HTTPServer.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}

func newLogger(env string) *slog.Logger {
	if env == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
