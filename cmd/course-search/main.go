package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/config"
	"github.com/learnia-cloud/course-search/internal/cors"
	"github.com/learnia-cloud/course-search/internal/domain"
	logpkg "github.com/learnia-cloud/course-search/internal/logger"
	"github.com/learnia-cloud/course-search/internal/metrics"
	catalogrepo "github.com/learnia-cloud/course-search/internal/repository/catalog"
	"github.com/learnia-cloud/course-search/internal/repository/embcache"
	favoritesrepo "github.com/learnia-cloud/course-search/internal/repository/favorites"
	"github.com/learnia-cloud/course-search/internal/transport/bedrock"
	"github.com/learnia-cloud/course-search/internal/transport/httpapi"
	openaiEmb "github.com/learnia-cloud/course-search/internal/transport/openai"
	cataloguc "github.com/learnia-cloud/course-search/internal/usecase/catalog"
	embeddinguc "github.com/learnia-cloud/course-search/internal/usecase/embedding"
	favoritesuc "github.com/learnia-cloud/course-search/internal/usecase/favorites"
	healthuc "github.com/learnia-cloud/course-search/internal/usecase/health"
	searchuc "github.com/learnia-cloud/course-search/internal/usecase/search"
	"github.com/learnia-cloud/course-search/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting course-search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("catalog_database", cfg.Catalog.Database),
	)

	ctx := context.Background()

	// Catalog store
	catalogRepo, err := catalogrepo.New(ctx, catalogrepo.Config{
		URI:                cfg.Catalog.URI,
		Database:           cfg.Catalog.Database,
		Collection:         cfg.Catalog.Collection,
		SearchIndex:        cfg.Catalog.SearchIndex,
		ConnectTimeoutMS:   cfg.Catalog.ConnectTimeoutMS,
		SelectionTimeoutMS: cfg.Catalog.SelectionTimeoutMS,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to catalog store", zap.Error(err))
	}
	defer func() { _ = catalogRepo.Close(context.Background()) }()

	// Favorites store
	favoritesRepo, err := favoritesrepo.New(ctx, favoritesrepo.Config{
		Host:     cfg.Favorites.Host,
		Port:     cfg.Favorites.Port,
		Database: cfg.Favorites.Database,
		User:     cfg.Favorites.User,
		Password: cfg.Favorites.Password,
		SSL:      cfg.Favorites.SSL,
		Table:    cfg.Favorites.Table,
		PoolMin:  cfg.Favorites.PoolMin,
		PoolMax:  cfg.Favorites.PoolMax,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open favorites store", zap.Error(err))
	}
	defer favoritesRepo.Close()

	logger.Info("Connected to backing stores")

	// Register metrics explicitly (no init())
	metrics.RegisterMetrics()

	// Build embedder chain at the composition root.
	embedder, baseEmbedder, err := buildEmbedder(ctx, cfg.Embedding, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Use case services
	searchSvc := searchuc.New(catalogRepo, embedder)
	catalogSvc := cataloguc.New(catalogRepo)
	favoritesSvc := favoritesuc.New(favoritesRepo)
	healthSvc := healthuc.New(catalogRepo, favoritesRepo, newEmbeddingHealthChecker(baseEmbedder))

	server := httpapi.NewServer(searchSvc, catalogSvc, favoritesSvc, healthSvc, logger)

	policy := cors.NewPolicy(cfg.CORS.AllowedOrigins)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.StripSlashes)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.CORSMiddleware(policy))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: provider -> cached ->
// instrumented. The undecorated provider is returned alongside for health
// probing, since decorators do not forward HealthCheck.
func buildEmbedder(
	ctx context.Context, cfg config.EmbeddingConfig, logger *zap.Logger,
) (domain.Embedder, domain.Embedder, error) {
	var base domain.Embedder
	switch cfg.Provider {
	case "bedrock":
		b, err := bedrock.NewEmbedder(ctx, &bedrock.Config{
			Model:             cfg.Model,
			Region:            cfg.Region,
			Dimensions:        cfg.Dimensions,
			ConnectTimeoutSec: cfg.ConnectTimeoutSec,
			ReadTimeoutSec:    cfg.ReadTimeoutSec,
			Logger:            logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("bedrock embedder: %w", err)
		}
		base = b
	case "openai":
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Logger:     logger,
		})
	default:
		return nil, nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	var store embcache.Store
	switch cfg.Cache.Driver {
	case "redis":
		s, err := embcache.NewRedisStore(embcache.RedisConfig{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis embedding cache: %w", err)
		}
		store = s
	default:
		s, err := embcache.NewMemoryStore(cfg.CacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("memory embedding cache: %w", err)
		}
		store = s
	}

	cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	return embeddinguc.NewInstrumentedEmbedder(cached, cfg.Provider, cfg.Model, logger), base, nil
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
