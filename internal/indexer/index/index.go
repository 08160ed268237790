// Package index holds the positional inverted index. An Index is built once
// from a finite document stream and is read-only afterwards, so any number of
// goroutines may query it without locking.
package index

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// DocumentSource supplies the corpus for a build. The sequence must be
// finite; a non-nil error aborts the build.
type DocumentSource interface {
	Documents(ctx context.Context) iter.Seq2[Document, error]
}

// SliceSource is an in-memory DocumentSource.
type SliceSource []Document

func (s SliceSource) Documents(ctx context.Context) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for _, doc := range s {
			if !yield(doc, nil) {
				return
			}
		}
	}
}

type Index struct {
	normalizer  *normalizer.Normalizer
	postings    map[string]map[string][]int
	registry    *Registry
	totalTokens int64
}

// Build consumes src and returns the finished index. The build is strictly
// sequential; ctx is checked between documents.
func Build(ctx context.Context, src DocumentSource, n *normalizer.Normalizer) (*Index, error) {
	idx := newIndex(n)
	for doc, err := range src.Documents(ctx) {
		if err != nil {
			return nil, fmt.Errorf("reading corpus: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("index build cancelled: %w", err)
		}
		if err := idx.addDocument(doc); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func newIndex(n *normalizer.Normalizer) *Index {
	if n == nil {
		n = normalizer.Default()
	}
	return &Index{
		normalizer: n,
		postings:   make(map[string]map[string][]int),
		registry:   newRegistry(),
	}
}

func (idx *Index) addDocument(doc Document) error {
	if err := idx.registry.add(doc); err != nil {
		return err
	}
	for pos, term := range idx.normalizer.Terms(doc.Text) {
		docs, exists := idx.postings[term]
		if !exists {
			docs = make(map[string][]int)
			idx.postings[term] = docs
		}
		docs[doc.ID] = append(docs[doc.ID], pos)
		idx.totalTokens++
	}
	return nil
}

// Posting returns the set of documents containing term. The term is
// case-folded and stemmed first. Unknown terms yield an empty set.
func (idx *Index) Posting(term string) DocSet {
	docs := idx.postings[idx.normalizer.StemTerm(term)]
	out := make(DocSet, len(docs))
	for id := range docs {
		out[id] = struct{}{}
	}
	return out
}

// Positions returns the strictly increasing offsets of term in docID, or an
// empty slice. The returned slice is a copy.
func (idx *Index) Positions(term, docID string) []int {
	positions := idx.postings[idx.normalizer.StemTerm(term)][docID]
	out := make([]int, len(positions))
	copy(out, positions)
	return out
}

// AllDocuments returns every registered document id.
func (idx *Index) AllDocuments() DocSet {
	return idx.registry.IDs()
}

// Document returns the raw text retained for id.
func (idx *Index) Document(id string) (string, error) {
	text, ok := idx.registry.Text(id)
	if !ok {
		return "", apperrors.Newf(apperrors.ErrDocumentNotFound, http.StatusNotFound, "document %q", id)
	}
	return text, nil
}

func (idx *Index) Normalizer() *normalizer.Normalizer {
	return idx.normalizer
}

func (idx *Index) Stats() Stats {
	return Stats{
		Documents:   idx.registry.Len(),
		Terms:       len(idx.postings),
		TotalTokens: idx.totalTokens,
	}
}

// Snapshot returns the index contents ordered by term and document id, ready
// for serialisation.
func (idx *Index) Snapshot() ([]TermEntry, []Document) {
	entries := make([]TermEntry, 0, len(idx.postings))
	for term, docs := range idx.postings {
		postings := make(PostingList, 0, len(docs))
		for docID, positions := range docs {
			p := make([]int, len(positions))
			copy(p, positions)
			postings = append(postings, Posting{DocID: docID, Positions: p})
		}
		sort.Slice(postings, func(i, j int) bool {
			return postings[i].DocID < postings[j].DocID
		})
		entries = append(entries, TermEntry{Term: term, Postings: postings})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})

	docs := make([]Document, 0, idx.registry.Len())
	for _, id := range idx.registry.IDs().Sorted() {
		text, _ := idx.registry.Text(id)
		docs = append(docs, Document{ID: id, Text: text})
	}
	return entries, docs
}

// FromSnapshot reassembles an index from serialised entries. Every posting
// must reference a registered document and carry strictly increasing,
// non-empty positions.
func FromSnapshot(n *normalizer.Normalizer, entries []TermEntry, docs []Document) (*Index, error) {
	idx := newIndex(n)
	for _, doc := range docs {
		if err := idx.registry.add(doc); err != nil {
			return nil, err
		}
	}
	for _, entry := range entries {
		if _, exists := idx.postings[entry.Term]; exists {
			return nil, fmt.Errorf("%w: term %q repeated", apperrors.ErrCorruptSnapshot, entry.Term)
		}
		byDoc := make(map[string][]int, len(entry.Postings))
		for _, p := range entry.Postings {
			if !idx.registry.Contains(p.DocID) {
				return nil, fmt.Errorf("%w: term %q references unknown document %q",
					apperrors.ErrCorruptSnapshot, entry.Term, p.DocID)
			}
			if _, dup := byDoc[p.DocID]; dup {
				return nil, fmt.Errorf("%w: term %q lists %q twice",
					apperrors.ErrCorruptSnapshot, entry.Term, p.DocID)
			}
			if !strictlyIncreasing(p.Positions) {
				return nil, fmt.Errorf("%w: term %q in %q has unordered positions",
					apperrors.ErrCorruptSnapshot, entry.Term, p.DocID)
			}
			byDoc[p.DocID] = p.Positions
			idx.totalTokens += int64(len(p.Positions))
		}
		idx.postings[entry.Term] = byDoc
	}
	return idx, nil
}

func strictlyIncreasing(positions []int) bool {
	if len(positions) == 0 {
		return false
	}
	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			return false
		}
	}
	return positions[0] >= 0
}
