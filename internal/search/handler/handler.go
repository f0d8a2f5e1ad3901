// Package handler serves the query interface: an HTML search page and a
// JSON API over the same execution path.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/analytics"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/cache"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/engine"
	apperrors "github.com/Yateesh1508/IR-ASSIGNMENT/pkg/errors"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/logger"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/metrics"
)

// Handler wires the engine, optional cache, optional analytics collector,
// and optional metrics into the HTTP surface.
type Handler struct {
	engine       *engine.Engine
	cache        *cache.QueryCache
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	page         *template.Template
	logger       *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil, disabling the
// corresponding concern.
func New(eng *engine.Engine, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	return &Handler{
		engine:       eng,
		cache:        queryCache,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		page:         template.Must(template.New("search").Parse(searchPage)),
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Home renders the search form, with results when a query is present.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	data := pageData{Query: query, Limit: h.defaultLimit}
	if limitStr := r.URL.Query().Get("k"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed >= 0 {
			data.Limit = min(parsed, h.maxResults)
		}
	}

	if query != "" {
		result, _, err := h.execute(r.Context(), query, data.Limit)
		if err != nil {
			http.Error(w, "search failed", apperrors.HTTPStatusCode(err))
			return
		}
		data.Searched = true
		data.Result = result
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Error("rendering search page failed", "error", err)
	}
}

// Search answers the JSON API. An empty query is not an error: it matches
// nothing and returns an empty result list. Only a missing 'q' parameter
// is rejected.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has("q") {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	query := params.Get("q")

	limit := h.defaultLimit
	if limitStr := params.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = min(parsed, h.maxResults)
	}

	result, _, err := h.execute(r.Context(), query, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("search execution failed", "query", query, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// execute runs a query through the cache when one is configured, and feeds
// the logging, metrics, and analytics sinks.
func (h *Handler) execute(ctx context.Context, query string, limit int) (*engine.Result, bool, error) {
	start := time.Now()

	var result *engine.Result
	var cacheHit bool
	var err error
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, limit, func() (*engine.Result, error) {
			return h.engine.Execute(ctx, query, limit)
		})
	} else {
		result, err = h.engine.Execute(ctx, query, limit)
	}

	latency := time.Since(start)
	if err != nil {
		if h.metrics != nil {
			h.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		}
		return nil, false, err
	}

	logger.FromContext(ctx).Info("search completed",
		"query", query,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	if h.metrics != nil {
		outcome := "results"
		if result.TotalHits == 0 {
			outcome = "zero_result"
		}
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
			h.metrics.CacheHitsTotal.Inc()
		} else if h.cache != nil {
			h.metrics.CacheMissesTotal.Inc()
		}
		h.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
		h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
		h.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
	}

	if h.collector != nil {
		eventType := analytics.EventSearch
		switch {
		case cacheHit:
			eventType = analytics.EventCacheHit
		case result.TotalHits == 0:
			eventType = analytics.EventZeroResult
		}
		h.collector.Track(analytics.QueryEvent{
			Type:      eventType,
			Query:     query,
			TotalHits: result.TotalHits,
			Returned:  len(result.Results),
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}

	return result, cacheHit, nil
}

// CacheStats reports hit/miss counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate drops all cached query results.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
