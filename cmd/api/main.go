// Package main is the entry point for the room detection API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/blueplan/roomsight/internal/api"
	"github.com/blueplan/roomsight/internal/artifact"
	"github.com/blueplan/roomsight/internal/cache"
	"github.com/blueplan/roomsight/internal/config"
	"github.com/blueplan/roomsight/internal/detect"
	"github.com/blueplan/roomsight/internal/health"
	"github.com/blueplan/roomsight/internal/image"
	"github.com/blueplan/roomsight/internal/middleware"
	"github.com/blueplan/roomsight/internal/tracing"
	"github.com/blueplan/roomsight/internal/vision"
)

const serviceName = "roomsight-api"

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("RoomSight API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if cfg == nil {
		logger := middleware.NewLogger(config.DefaultEnv)
		for _, err := range errs {
			logger.Error("failed to load configuration", "error", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if len(errs) > 0 {
		for _, err := range errs {
			logger.Error("invalid configuration", "error", err)
		}
		os.Exit(1)
	}
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporterType,
		OTLPEndpoint: cfg.TracingOTLPEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		InsecureMode: cfg.TracingInsecureMode,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	visionClient, err := vision.NewClient(context.Background(), vision.ClientConfig{
		ModelID:    cfg.BedrockModelID,
		Region:     cfg.BedrockRegion,
		MaxRetries: cfg.BedrockMaxRetries,
		Timeout:    time.Duration(cfg.BedrockTimeoutSeconds) * time.Second,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to initialize vision client", "error", err)
		os.Exit(1)
	}
	modelID := cfg.BedrockModelID
	if modelID == "" {
		modelID = vision.DefaultModelID
	}

	preprocessor := image.NewProcessor(image.ProcessorConfig{
		MaxDimension:   cfg.ImageMaxDimension,
		ContrastFactor: cfg.ImageContrastFactor,
	})

	// Redis backs the result cache, the readiness probe, and distributed
	// rate limiting. Without it detection still works and rate limits fall
	// back to per-process counters.
	var (
		resultCache    detect.ResultCache
		cacheChecker   api.HealthChecker
		rateLimitStore middleware.RateLimitStore = middleware.NewInMemoryRateLimitStore()
	)
	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		resultCache = cache.NewRedisResultCache(redisClient, time.Duration(cfg.CacheTTLMinutes)*time.Minute)
		cacheChecker = health.NewRedisChecker(redisClient)
		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient)
		logger.Info("result cache enabled", "addr", cfg.RedisAddr)
	}

	var (
		resultStore  api.ResultStore
		presigner    api.ResultPresigner
		storeChecker api.HealthChecker
	)
	if cfg.ArtifactStoreEnabled() {
		store, err := artifact.NewStore(artifact.StoreConfig{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Error("failed to initialize artifact store", "error", err)
			os.Exit(1)
		}
		resultStore = store
		presigner = store
		storeChecker = health.NewS3Checker(store.Client(), cfg.S3Bucket)
		logger.Info("artifact store enabled", "bucket", cfg.S3Bucket)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register http metrics", "error", err)
		os.Exit(1)
	}
	detectMetrics := detect.NewMetrics()
	if err := detectMetrics.Register(registry); err != nil {
		logger.Error("failed to register detection metrics", "error", err)
		os.Exit(1)
	}

	service, err := detect.NewService(detect.ServiceConfig{
		Invoker:      visionClient,
		Preprocessor: preprocessor,
		Cache:        resultCache,
		Metrics:      detectMetrics,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to initialize detection service", "error", err)
		os.Exit(1)
	}

	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		CacheChecker: cacheChecker,
		StoreChecker: storeChecker,
	})
	detectHandlers := api.NewDetectHandlers(api.DetectHandlersConfig{
		Service:       service,
		Store:         resultStore,
		ModelID:       modelID,
		MaxImageBytes: int64(cfg.MaxImageSizeMB) << 20,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Each detection invokes the vision model, so the endpoint carries its
	// own tighter limit on top of the global one.
	detectLimiter := middleware.RateLimiter(rateLimitStore, middleware.DefaultDetectLimit(), middleware.IPKeyFunc(), httpMetrics)
	mux.Handle("/detect", detectLimiter(http.HandlerFunc(detectHandlers.Detect)))

	if presigner != nil {
		resultHandlers := api.NewResultHandlers(presigner)
		mux.HandleFunc("/results/{id}/url", resultHandlers.ResultURL)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Only handle exact root path, everything else returns 404
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
			api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"roomsight-api"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Apply middleware: Tracing -> RequestID -> Logging -> HTTPMetrics ->
	// CORS -> global RateLimiter
	var handler http.Handler = mux
	handler = middleware.RateLimiter(rateLimitStore, middleware.DefaultGlobalLimit(), middleware.IPKeyFunc(), httpMetrics)(handler)
	handler = middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins))(handler)
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Tracing(serviceName)(handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
		// A detection request can hold the connection through several
		// model invocation attempts, so the write timeout is generous.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server stopped")
}
