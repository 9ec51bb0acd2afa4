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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/chunker"
	"github.com/kailas-cloud/guidechat/internal/config"
	dbRedis "github.com/kailas-cloud/guidechat/internal/db/redis"
	"github.com/kailas-cloud/guidechat/internal/domain"
	"github.com/kailas-cloud/guidechat/internal/index"
	"github.com/kailas-cloud/guidechat/internal/ingest"
	logpkg "github.com/kailas-cloud/guidechat/internal/logger"
	"github.com/kailas-cloud/guidechat/internal/metrics"
	"github.com/kailas-cloud/guidechat/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/guidechat/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/guidechat/internal/transport/openai"
	"github.com/kailas-cloud/guidechat/internal/transport/tavily"
	"github.com/kailas-cloud/guidechat/internal/usecase/answer"
	chatuc "github.com/kailas-cloud/guidechat/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/guidechat/internal/usecase/health"
	"github.com/kailas-cloud/guidechat/internal/usecase/websearch"
	"github.com/kailas-cloud/guidechat/internal/version"
)

func main() {
	// Credentials arrive via the environment; .env is a local convenience.
	_ = godotenv.Load()

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

	logger.Info("Starting guidechat server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("guides_folder", cfg.Guides.Folder),
		zap.String("llm_model", cfg.LLM.Model),
	)

	ctx := context.Background()

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Optional Redis embedding cache
	var store *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Embedder chain: OpenAI -> (optional) Redis cache
	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	if store != nil {
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Ingest guides and build the index. Both error classes here are
	// startup-fatal: without an index there is nothing to serve.
	ingestSvc := ingest.New(ingest.NewPDFParser(), logger)
	docs, err := ingestSvc.LoadFolder(ctx, cfg.Guides.Folder)
	if err != nil {
		logger.Fatal("Cannot load guides — add PDF files and restart",
			zap.String("folder", cfg.Guides.Folder),
			zap.Error(err),
		)
	}

	chunks := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap).Chunk(docs)
	logger.Info("Guides chunked",
		zap.Int("pages", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", cfg.Chunking.Size),
		zap.Int("chunk_overlap", cfg.Chunking.Overlap),
	)

	idx, err := index.Build(ctx, chunks, embedder, logger)
	if err != nil {
		logger.Fatal("Failed to build the retrieval index", zap.Error(err))
	}

	// Generation pipeline
	llm := openaiTransport.NewLLM(&openaiTransport.LLMConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	chain := answer.NewModelChain(llm, cfg.LLM.Model, cfg.LLM.FallbackModel, logger)
	answerSvc := answer.New(idx, chain, logger)

	searchClient := tavily.NewClient(&tavily.Config{
		APIKey:     cfg.WebSearch.APIKey,
		BaseURL:    cfg.WebSearch.BaseURL,
		MaxResults: cfg.WebSearch.MaxResults,
		Timeout:    time.Duration(cfg.WebSearch.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	webSvc := websearch.New(searchClient, chain, logger)

	chatSvc := chatuc.New(answerSvc, webSvc, logger)

	// Pass nil interface (not typed nil pointer!) when no cache is configured.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(llm, cachePinger, idx)

	server := chiTransport.NewServer(chatSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
						"code":    "internal_error",
						"message": "internal error",
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
