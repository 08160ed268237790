// Package executor runs queries through the query engine and records what
// happened: one log line, a tracing span and Prometheus samples per query.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/tracing"
)

// Outcome labels for query_evaluations_total.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

type Executor struct {
	engine  *query.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New wraps engine. m may be nil.
func New(engine *query.Engine, m *metrics.Metrics) *Executor {
	return &Executor{
		engine:  engine,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

func (e *Executor) Engine() *query.Engine {
	return e.engine
}

// Execute evaluates q. Evaluation itself never blocks, so ctx is only
// checked before starting.
func (e *Executor) Execute(ctx context.Context, q string) (*query.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Newf(apperrors.ErrTimeout, http.StatusServiceUnavailable, "query not started: %v", err)
	}
	mode := query.Classify(q)
	_, span := tracing.StartChildSpan(ctx, "evaluate")
	span.SetAttr("mode", string(mode))
	defer span.End()

	start := time.Now()
	res, err := e.engine.Evaluate(q)
	elapsed := time.Since(start)
	log := logger.FromContext(ctx).With("component", "query-executor")

	if err != nil {
		e.observe(mode, OutcomeError, elapsed, 0)
		span.SetAttr("error", apperrors.Code(err))
		log.Info("query rejected", "query", q, "mode", mode, "code", apperrors.Code(err), "error", err)
		return nil, fmt.Errorf("evaluating %q: %w", q, err)
	}

	outcome := OutcomeOK
	if res.Docs.Len() == 0 {
		outcome = OutcomeEmpty
	}
	e.observe(mode, outcome, elapsed, res.Docs.Len())
	span.SetAttr("hits", res.Docs.Len())
	span.SetAttr("cost", res.Cost)

	if res.Diagnostic != "" {
		log.Debug("query degraded", "query", q, "diagnostic", res.Diagnostic)
	}
	log.Info("query executed",
		"query", q,
		"mode", mode,
		"hits", res.Docs.Len(),
		"cost", res.Cost,
		"duration_us", elapsed.Microseconds(),
	)
	return res, nil
}

func (e *Executor) observe(mode query.Mode, outcome string, elapsed time.Duration, hits int) {
	if e.metrics == nil {
		return
	}
	e.metrics.QueryEvaluations.WithLabelValues(string(mode), outcome).Inc()
	e.metrics.QueryLatency.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	if outcome != OutcomeError {
		e.metrics.QueryResultSize.Observe(float64(hits))
	}
}
