// Package engine evaluates a query against the index and shapes the result
// for transport. Each execution is stateless; the index is read-only.
package engine

import (
	"context"
	"log/slog"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/index"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/ranker"
)

// Result is the outcome of one query evaluation. TotalHits counts every
// document with a nonzero score, before truncation to the requested limit.
type Result struct {
	Query     string             `json:"query"`
	TotalHits int                `json:"total_hits"`
	Results   []ranker.ScoredDoc `json:"results"`
}

// Engine evaluates queries against a fixed index.
type Engine struct {
	index  *index.Index
	logger *slog.Logger
}

// New creates an Engine over a built index.
func New(ix *index.Index) *Engine {
	return &Engine{
		index:  ix,
		logger: slog.Default().With("component", "search-engine"),
	}
}

// Execute ranks every matching document and truncates to limit. Garbage or
// empty queries degrade to an empty result, never an error.
func (e *Engine) Execute(ctx context.Context, query string, limit int) (*Result, error) {
	ranked := ranker.RankAll(query, e.index)
	total := len(ranked)
	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []ranker.ScoredDoc{}
	}
	e.logger.Debug("query executed",
		"query", query,
		"total_hits", total,
		"returned", len(ranked),
	)
	return &Result{Query: query, TotalHits: total, Results: ranked}, nil
}

// DocCount exposes the index size for health reporting.
func (e *Engine) DocCount() int {
	return e.index.DocCount()
}
