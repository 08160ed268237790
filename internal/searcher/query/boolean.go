package query

import (
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

const (
	opAND = "AND"
	opOR  = "OR"
	opNOT = "NOT"
)

func isOperator(tok string) bool {
	switch strings.ToUpper(tok) {
	case opAND, opOR, opNOT:
		return true
	}
	return false
}

// boolean folds tokens strictly left to right with no precedence. The last
// AND/OR seen stays pending for every later operand; with none seen, operands
// combine by AND. NOT negates only the single token after it.
func (e *Engine) boolean(q string) (*Result, error) {
	res := &Result{Query: q, Mode: ModeBoolean, Docs: index.DocSet{}}
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return res, nil
	}

	terms := 0
	for _, tok := range tokens {
		if !isOperator(tok) {
			terms++
		}
	}
	if terms > e.maxTerms {
		return nil, apperrors.Newf(apperrors.ErrQueryTooComplex, http.StatusBadRequest,
			"%d index terms, at most %d allowed", terms, e.maxTerms)
	}

	var (
		acc     index.DocSet
		pending string
	)
	for i := 0; i < len(tokens); i++ {
		var operand index.DocSet
		switch strings.ToUpper(tokens[i]) {
		case opAND, opOR:
			pending = strings.ToUpper(tokens[i])
			continue
		case opNOT:
			i++
			if i >= len(tokens) {
				return nil, apperrors.New(apperrors.ErrMalformedNot, http.StatusBadRequest,
					"NOT must be followed by a term")
			}
			operand = e.idx.AllDocuments().Difference(e.idx.Posting(tokens[i]))
		default:
			operand = e.idx.Posting(tokens[i])
		}
		res.Cost += operand.Len()

		if acc == nil {
			acc = operand
			continue
		}
		res.Cost += acc.Len() + operand.Len()
		if pending == opOR {
			acc = acc.Union(operand)
		} else {
			acc = acc.Intersect(operand)
		}
	}
	if acc != nil {
		res.Docs = acc
	}
	return res, nil
}
