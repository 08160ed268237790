// Package handler serves the search HTTP API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/gold"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/tracing"
)

// MaxQueryBytes bounds the q parameter; longer queries are rejected with 400.
const MaxQueryBytes = 1024

type SearchExecutor interface {
	Execute(ctx context.Context, q string) (*query.Result, error)
}

type SearchResponse struct {
	Query      string   `json:"query"`
	Mode       string   `json:"mode"`
	TotalHits  int      `json:"total_hits"`
	Documents  []string `json:"documents"`
	Cost       int      `json:"cost"`
	Diagnostic string   `json:"diagnostic,omitempty"`
	CacheHit   bool     `json:"cache_hit"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type Handler struct {
	executor  SearchExecutor
	idx       *index.Index
	cache     *cache.QueryCache
	collector *analytics.Collector
	goldCases []gold.Case
	logger    *slog.Logger
}

// New builds a Handler. queryCache, collector and goldCases are optional.
func New(exec SearchExecutor, idx *index.Index, queryCache *cache.QueryCache, collector *analytics.Collector, goldCases []gold.Case) *Handler {
	return &Handler{
		executor:  exec,
		idx:       idx,
		cache:     queryCache,
		collector: collector,
		goldCases: goldCases,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.Document)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/gold", h.Gold)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.StartSpan(r.Context(), "search", logger.RequestID(r.Context()))
	log := logger.FromContext(ctx)
	defer func() {
		span.End()
		span.Log(ctx, log)
	}()

	q := r.URL.Query().Get("q")
	span.SetAttr("query", q)
	if len(q) > MaxQueryBytes {
		err := apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"query is %d bytes, at most %d allowed", len(q), MaxQueryBytes)
		h.track(analytics.QueryEvent{
			Query:     q[:MaxQueryBytes],
			Mode:      string(query.Classify(q)),
			ErrorCode: apperrors.Code(err),
			LatencyUs: time.Since(start).Microseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		result   *query.Result
		err      error
		cacheHit bool
	)
	if h.cache != nil {
		// The shared computation outlives any one caller: a cancelled first
		// request must not fail the others waiting on it.
		shared := context.WithoutCancel(ctx)
		result, cacheHit, err = h.cache.GetOrCompute(ctx, q, func() (*query.Result, error) {
			return h.executor.Execute(shared, q)
		})
	} else {
		result, err = h.executor.Execute(ctx, q)
	}
	span.SetAttr("cache_hit", cacheHit)

	event := analytics.QueryEvent{
		Query:     q,
		Mode:      string(query.Classify(q)),
		CacheHit:  cacheHit,
		LatencyUs: time.Since(start).Microseconds(),
		Timestamp: time.Now().UTC(),
		RequestID: logger.RequestID(ctx),
	}

	if err != nil {
		event.ErrorCode = apperrors.Code(err)
		h.track(event)
		status := apperrors.HTTPStatusCode(err)
		if status >= http.StatusInternalServerError {
			log.Error("search failed", "query", q, "error", err)
		}
		h.writeError(w, status, err)
		return
	}

	event.TotalHits = result.Docs.Len()
	event.Cost = result.Cost
	event.Degraded = result.Diagnostic != ""
	h.track(event)

	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:      result.Query,
		Mode:       string(result.Mode),
		TotalHits:  result.Docs.Len(),
		Documents:  result.Docs.Sorted(),
		Cost:       result.Cost,
		Diagnostic: result.Diagnostic,
		CacheHit:   cacheHit,
	})
}

func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	text, err := h.idx.Document(id)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"id": id, "text": text})
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	stats := h.idx.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"documents":    stats.Documents,
		"terms":        stats.Terms,
		"total_tokens": stats.TotalTokens,
		"stemmer":      h.idx.Normalizer().StemmerName(),
	})
}

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

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "caching is disabled", Code: "cache_disabled"})
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError,
			apperrors.Newf(apperrors.ErrInternal, http.StatusInternalServerError, "cache invalidation failed: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

// Gold runs the configured gold queries and returns the report.
func (h *Handler) Gold(w http.ResponseWriter, r *http.Request) {
	if len(h.goldCases) == 0 {
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no gold file configured", Code: "not_found"})
		return
	}
	report, err := gold.Run(r.Context(), h.executor, h.goldCases)
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, apperrors.Newf(apperrors.ErrTimeout, http.StatusServiceUnavailable, "%v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) track(e analytics.QueryEvent) {
	if h.collector != nil {
		h.collector.Track(e)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError && !errors.Is(err, apperrors.ErrTimeout) {
		msg = "internal error"
	}
	h.writeJSON(w, status, ErrorResponse{Error: msg, Code: apperrors.Code(err)})
}
