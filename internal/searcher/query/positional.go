package query

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
)

// candidates intersects the posting lists of words, charging each list and
// each merge to res.Cost.
func (e *Engine) candidates(res *Result, words []string) index.DocSet {
	var docs index.DocSet
	for _, w := range words {
		p := e.idx.Posting(w)
		res.Cost += p.Len()
		if docs == nil {
			docs = p
			continue
		}
		res.Cost += docs.Len() + p.Len()
		docs = docs.Intersect(p)
	}
	return docs
}

// phrase accepts a document when the words occur at consecutive offsets.
// Scanning a document stops at its first match.
func (e *Engine) phrase(q string, words []string) *Result {
	res := &Result{Query: q, Mode: ModePhrase, Docs: index.DocSet{}}
	if len(words) == 0 {
		return res
	}
	for doc := range e.candidates(res, words) {
		rest := make([][]int, len(words)-1)
		for i, w := range words[1:] {
			rest[i] = e.idx.Positions(w, doc)
		}
		for _, p := range e.idx.Positions(words[0], doc) {
			if phraseAt(p, rest) {
				res.Docs[doc] = struct{}{}
				break
			}
		}
	}
	return res
}

func phraseAt(start int, rest [][]int) bool {
	for i, positions := range rest {
		if _, found := slices.BinarySearch(positions, start+i+1); !found {
			return false
		}
	}
	return true
}

const proximityUsage = `expected "term1 term2 / k" with a non-negative integer k`

// proximity accepts a document when some occurrence of the two terms has at
// most k terms between them. A malformed query returns an empty result with
// a diagnostic.
func (e *Engine) proximity(q string) *Result {
	res := &Result{Query: q, Mode: ModeProximity, Docs: index.DocSet{}}
	parts := strings.Split(q, "/")
	if len(parts) != 2 {
		res.Diagnostic = "more than one '/': " + proximityUsage
		return res
	}
	k, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || k < 0 {
		res.Diagnostic = "invalid distance " + strconv.Quote(strings.TrimSpace(parts[1])) + ": " + proximityUsage
		return res
	}
	words := strings.Fields(parts[0])
	if len(words) != 2 {
		res.Diagnostic = "need exactly two terms, got " + strconv.Itoa(len(words)) + ": " + proximityUsage
		return res
	}

	for doc := range e.candidates(res, words) {
		if within(e.idx.Positions(words[0], doc), e.idx.Positions(words[1], doc), k) {
			res.Docs[doc] = struct{}{}
		}
	}
	return res
}

// within walks both sorted lists once, advancing the smaller side, and
// reports the first pair with at most k offsets between them.
func within(a, b []int, k int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		gap := a[i] - b[j]
		if gap < 0 {
			gap = -gap
		}
		if gap-1 <= k {
			return true
		}
		if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return false
}
