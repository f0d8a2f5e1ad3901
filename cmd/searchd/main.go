// Command searchd builds a TF-IDF inverted index over a fixed corpus at
// startup and serves ranked cosine-similarity search over HTTP: an HTML
// page at / and a JSON API under /api/v1.
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

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/analytics"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/corpus"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/index"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/cache"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/engine"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/handler"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/config"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/health"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/kafka"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/logger"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/metrics"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/middleware"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/postgres"
	pkgredis "github.com/Yateesh1508/IR-ASSIGNMENT/pkg/redis"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	provider, pgClient, err := newProvider(cfg)
	if err != nil {
		slog.Error("failed to set up corpus provider", "error", err)
		os.Exit(1)
	}
	if pgClient != nil {
		defer pgClient.Close()
	}

	var docs []corpus.Document
	err = resilience.Retry(ctx, "corpus-load", resilience.RetryConfig{}, func() error {
		var loadErr error
		docs, loadErr = provider.Load(ctx)
		return loadErr
	})
	if err != nil {
		slog.Error("failed to load corpus", "error", err)
		os.Exit(1)
	}

	buildStart := time.Now()
	ix := index.Build(docs)
	buildTime := time.Since(buildStart)
	slog.Info("index built",
		"documents", ix.DocCount(),
		"vocabulary", ix.VocabularySize(),
		"took", buildTime.Round(time.Millisecond),
	)
	if m != nil {
		m.IndexedDocuments.Set(float64(ix.DocCount()))
		m.VocabularySize.Set(float64(ix.VocabularySize()))
		m.IndexBuildSeconds.Set(buildTime.Seconds())
	}

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	var collector *analytics.Collector
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 4096)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("query analytics enabled", "topic", cfg.Kafka.Topic)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d terms", ix.DocCount(), ix.VocabularySize()),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not connected"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if pgClient != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	eng := engine.New(ix)
	h := handler.New(eng, queryCache, collector, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	if m != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}

// newProvider picks the corpus provider from config. The returned postgres
// client is non-nil only for the postgres source and must be closed by the
// caller after the index is built.
func newProvider(cfg *config.Config) (corpus.Provider, *postgres.Client, error) {
	switch cfg.Corpus.Source {
	case config.SourcePostgres:
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return corpus.NewPostgresProvider(client, cfg.Corpus.Table), client, nil
	default:
		return corpus.NewDirProvider(cfg.Corpus.Dir), nil, nil
	}
}
