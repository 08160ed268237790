package index

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

var testCorpus = SliceSource{
	{ID: "1", Text: "The data retrieval system indexes data quickly."},
	{ID: "2", Text: "Retrieval of data: a survey of retrieval models."},
	{ID: "3", Text: "Deep learning for image classification."},
	{ID: "4", Text: ""},
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build(context.Background(), testCorpus, normalizer.Default())
	require.NoError(t, err)
	return idx
}

func TestBuildPostingAndPositions(t *testing.T) {
	idx := buildTestIndex(t)

	assert.True(t, idx.Posting("data").Equal(NewDocSet("1", "2")))
	assert.True(t, idx.Posting("RETRIEVAL").Equal(NewDocSet("1", "2")))
	assert.True(t, idx.Posting("learning").Equal(NewDocSet("3")))

	// "the" is a stop-word, so doc 1 is: data(0) retrieval(1) system(2) indexes(3) data(4) quickly(5).
	assert.Equal(t, []int{0, 4}, idx.Positions("data", "1"))
	assert.Equal(t, []int{1}, idx.Positions("retrieval", "1"))
}

func TestUnknownTermIsEmpty(t *testing.T) {
	idx := buildTestIndex(t)
	assert.Equal(t, 0, idx.Posting("zebra").Len())
	assert.Empty(t, idx.Positions("zebra", "1"))
	assert.Empty(t, idx.Positions("data", "3"))
	assert.Empty(t, idx.Positions("data", "missing"))
}

func TestAllDocumentsIncludesEmptyDocuments(t *testing.T) {
	idx := buildTestIndex(t)
	assert.True(t, idx.AllDocuments().Equal(NewDocSet("1", "2", "3", "4")))
}

func TestPostingMatchesPositions(t *testing.T) {
	idx := buildTestIndex(t)
	entries, _ := idx.Snapshot()
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		withPositions := make(DocSet)
		for id := range idx.AllDocuments() {
			if len(idx.postings[entry.Term][id]) > 0 {
				withPositions[id] = struct{}{}
			}
		}
		assert.True(t, withPositions.Equal(NewDocSet(docIDs(entry.Postings)...)), entry.Term)
		for _, p := range entry.Postings {
			assert.True(t, strictlyIncreasing(p.Positions), "%s/%s", entry.Term, p.DocID)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	idx := buildTestIndex(t)
	set := idx.Posting("data")
	delete(set, "1")
	assert.True(t, idx.Posting("data").Contains("1"))

	pos := idx.Positions("data", "1")
	pos[0] = 99
	assert.Equal(t, []int{0, 4}, idx.Positions("data", "1"))

	all := idx.AllDocuments()
	delete(all, "3")
	assert.Equal(t, 4, idx.AllDocuments().Len())
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	src := SliceSource{
		{ID: "a", Text: "first"},
		{ID: "a", Text: "second"},
	}
	_, err := Build(context.Background(), src, normalizer.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateDocument)
}

type failingSource struct{}

func (failingSource) Documents(ctx context.Context) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		if !yield(Document{ID: "ok", Text: "fine"}, nil) {
			return
		}
		yield(Document{}, errors.New("disk on fire"))
	}
}

func TestBuildPropagatesSourceError(t *testing.T) {
	_, err := Build(context.Background(), failingSource{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, testCorpus, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentText(t *testing.T) {
	idx := buildTestIndex(t)
	text, err := idx.Document("3")
	require.NoError(t, err)
	assert.Equal(t, "Deep learning for image classification.", text)

	_, err = idx.Document("nope")
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestStats(t *testing.T) {
	idx := buildTestIndex(t)
	stats := idx.Stats()
	assert.Equal(t, 4, stats.Documents)
	assert.Positive(t, stats.Terms)
	assert.Positive(t, stats.TotalTokens)
}

func TestSnapshotRoundTrip(t *testing.T) {
	idx := buildTestIndex(t)
	entries, docs := idx.Snapshot()

	restored, err := FromSnapshot(normalizer.Default(), entries, docs)
	require.NoError(t, err)

	assert.Equal(t, idx.Stats(), restored.Stats())
	assert.True(t, idx.AllDocuments().Equal(restored.AllDocuments()))
	for _, entry := range entries {
		for _, p := range entry.Postings {
			assert.Equal(t, idx.postings[entry.Term][p.DocID], restored.postings[entry.Term][p.DocID])
		}
	}
}

func TestFromSnapshotRejectsCorruption(t *testing.T) {
	docs := []Document{{ID: "1", Text: "x"}}
	tests := []struct {
		name    string
		entries []TermEntry
	}{
		{"unknown doc", []TermEntry{{Term: "x", Postings: PostingList{{DocID: "9", Positions: []int{0}}}}}},
		{"unordered", []TermEntry{{Term: "x", Postings: PostingList{{DocID: "1", Positions: []int{3, 1}}}}}},
		{"empty positions", []TermEntry{{Term: "x", Postings: PostingList{{DocID: "1"}}}}},
		{"repeated term", []TermEntry{
			{Term: "x", Postings: PostingList{{DocID: "1", Positions: []int{0}}}},
			{Term: "x", Postings: PostingList{{DocID: "1", Positions: []int{0}}}},
		}},
		{"repeated doc", []TermEntry{{Term: "x", Postings: PostingList{
			{DocID: "1", Positions: []int{0}},
			{DocID: "1", Positions: []int{1}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(nil, tt.entries, docs)
			assert.ErrorIs(t, err, apperrors.ErrCorruptSnapshot)
		})
	}
}

func docIDs(postings PostingList) []string {
	ids := make([]string, 0, len(postings))
	for _, p := range postings {
		ids = append(ids, p.DocID)
	}
	return ids
}
