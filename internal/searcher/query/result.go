package query

import (
	"encoding/json"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// Mode is the evaluation strategy picked for a query string.
type Mode string

const (
	ModeBoolean   Mode = "boolean"
	ModePhrase    Mode = "phrase"
	ModeProximity Mode = "proximity"
)

// Result is the outcome of one evaluation. Docs is unordered; Cost is the
// number of posting entries touched and is informational only.
type Result struct {
	Query      string
	Mode       Mode
	Docs       index.DocSet
	Cost       int
	Diagnostic string
}

// Err reports a degraded evaluation (currently only a malformed proximity
// query) as an error wrapping ErrMalformedProximity, or nil.
func (r *Result) Err() error {
	if r.Diagnostic == "" {
		return nil
	}
	return fmt.Errorf("%w: %s", apperrors.ErrMalformedProximity, r.Diagnostic)
}

type resultJSON struct {
	Query      string   `json:"query"`
	Mode       Mode     `json:"mode"`
	Documents  []string `json:"documents"`
	Cost       int      `json:"cost"`
	Diagnostic string   `json:"diagnostic,omitempty"`
}

// MarshalJSON writes Docs as a sorted array.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Query:      r.Query,
		Mode:       r.Mode,
		Documents:  r.Docs.Sorted(),
		Cost:       r.Cost,
		Diagnostic: r.Diagnostic,
	})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Result{
		Query:      w.Query,
		Mode:       w.Mode,
		Docs:       index.NewDocSet(w.Documents...),
		Cost:       w.Cost,
		Diagnostic: w.Diagnostic,
	}
	return nil
}
