// Package query evaluates Boolean, phrase and proximity queries against an
// immutable index. An Engine holds no mutable state, so one Engine serves any
// number of goroutines.
package query

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
)

// DefaultMaxBooleanTerms bounds the non-operator terms of a Boolean query.
const DefaultMaxBooleanTerms = 3

type Options struct {
	MaxBooleanTerms int
}

type Engine struct {
	idx      *index.Index
	maxTerms int
}

func NewEngine(idx *index.Index, opts Options) *Engine {
	if opts.MaxBooleanTerms <= 0 {
		opts.MaxBooleanTerms = DefaultMaxBooleanTerms
	}
	return &Engine{idx: idx, maxTerms: opts.MaxBooleanTerms}
}

// Index returns the index the engine reads.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Classify picks the mode for q: proximity when it contains a slash, phrase
// when it is wrapped in double quotes, Boolean otherwise.
func Classify(q string) Mode {
	q = strings.TrimSpace(q)
	switch {
	case strings.Contains(q, "/"):
		return ModeProximity
	case len(q) >= 2 && strings.HasPrefix(q, `"`) && strings.HasSuffix(q, `"`):
		return ModePhrase
	default:
		return ModeBoolean
	}
}

// Evaluate runs q. Only Boolean queries return errors (ErrQueryTooComplex,
// ErrMalformedNot); a malformed proximity query yields an empty Result with
// Diagnostic set.
func (e *Engine) Evaluate(q string) (*Result, error) {
	q = strings.TrimSpace(q)
	switch Classify(q) {
	case ModeProximity:
		return e.proximity(q), nil
	case ModePhrase:
		return e.phrase(q, strings.Fields(q[1:len(q)-1])), nil
	default:
		return e.boolean(q)
	}
}
