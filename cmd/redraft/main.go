package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/chunker"
	"github.com/kailas-cloud/redraft/internal/config"
	"github.com/kailas-cloud/redraft/internal/db"
	dbRedis "github.com/kailas-cloud/redraft/internal/db/redis"
	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/index"
	logpkg "github.com/kailas-cloud/redraft/internal/logger"
	"github.com/kailas-cloud/redraft/internal/metrics"
	"github.com/kailas-cloud/redraft/internal/repository/chunkstore"
	"github.com/kailas-cloud/redraft/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/redraft/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/redraft/internal/transport/openai"
	healthuc "github.com/kailas-cloud/redraft/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/redraft/internal/usecase/ingest"
	retrievaluc "github.com/kailas-cloud/redraft/internal/usecase/retrieval"
	suggestuc "github.com/kailas-cloud/redraft/internal/usecase/suggest"
	"github.com/kailas-cloud/redraft/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting redraft API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// Database is optional: without it the corpus lives in memory only.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
	} else {
		logger.Info("No database configured, running memory-only")
	}

	// Embedder chain: OpenAI -> cache. No API key means no dense engine.
	var embedder domain.Embedder
	if cfg.Embedding.APIKey != "" {
		base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
			Logger:     logger,
		})
		embedder = base
		if store != nil {
			embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
		}
		logger.Info("Embedder created", zap.String("model", cfg.Embedding.Model))
	} else {
		logger.Warn("No embedding API key, dense retrieval disabled")
	}

	var rewriter domain.Rewriter
	if cfg.Generation.APIKey != "" {
		rewriter = openaiTransport.NewRewriter(&openaiTransport.RewriterConfig{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			Timeout:     time.Duration(cfg.Generation.TimeoutSec) * time.Second,
			Logger:      logger,
		})
		logger.Info("Rewriter created", zap.String("model", cfg.Generation.Model))
	} else {
		logger.Warn("No generation API key, generative rewrites disabled")
	}

	// Indexing pipeline
	chunk := chunker.New(chunker.Config{
		Method:              cfg.Chunking.Method,
		ChunkSize:           cfg.Chunking.ChunkSize,
		OverlapSize:         cfg.Chunking.OverlapSize,
		TargetSize:          cfg.Chunking.TargetSize,
		SimilarityThreshold: cfg.Chunking.SemanticSimilarityThreshold,
		MinFactor:           cfg.Chunking.SemanticMinFactor,
		MaxFactor:           cfg.Chunking.SemanticMaxFactor,
	}, nil, embedder, logger)

	dual := index.NewDualStore(embedder, logger)

	var persister ingestuc.Persister
	if store != nil {
		persister = chunkstore.New(store, cfg.Storage.KeyPrefix, logger)
	}

	ingestSvc := ingestuc.New(chunk, dual, persister, logger)
	if warmed, err := ingestSvc.WarmStart(ctx); err != nil {
		logger.Error("Failed to warm indexes from storage", zap.Error(err))
	} else if warmed > 0 {
		logger.Info("Warm start complete", zap.Int("chunks", warmed))
	}

	// Retrieval + suggestion cascade
	retrievalSvc := retrievaluc.New(dual, retrievaluc.Config{
		WeightDense:    cfg.Retrieval.WeightDense,
		WeightSparse:   cfg.Retrieval.WeightSparse,
		PoolMultiplier: cfg.Retrieval.PoolMultiplier,
	}, logger)

	rules := suggestuc.NewRules()
	validator := suggestuc.NewValidator(cfg.Cascade.LengthSlackWords, rules)
	strategies := []suggestuc.Strategy{
		suggestuc.NewDocumentSearch(retrievalSvc, cfg.Cascade.HighThreshold, cfg.Cascade.MediumThreshold),
		suggestuc.NewExtendedSearch(retrievalSvc, cfg.Cascade.ExtendedThreshold),
		suggestuc.NewGenerative(retrievalSvc, rewriter, validator, cfg.Cascade.MaxContextDocs, logger),
		suggestuc.NewRuleFallback(rules),
	}
	suggestSvc := suggestuc.New(strategies, rules, logger)

	var embeddingChecker healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		embeddingChecker = hc
	}
	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	healthSvc := healthuc.New(dbPinger, embeddingChecker, dual)

	server := chiTransport.NewServer(
		ingestSvc, retrievalSvc, suggestSvc, healthSvc, cfg.Auth.APIKeys, logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
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
