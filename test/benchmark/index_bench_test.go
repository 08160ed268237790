// Package benchmark contains Go benchmarks for index construction, snapshot
// persistence, text normalization and query evaluation.
package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/segment"
)

var vocabulary = strings.Fields(`information retrieval systems inverted index
	positional postings boolean queries phrase proximity search engine documents
	abstracts terms stemming stopwords corpus evaluation relevance ranking`)

// syntheticCorpus returns n documents of words drawn round-robin from
// vocabulary so every term appears in many documents.
func syntheticCorpus(n, words int) index.SliceSource {
	docs := make(index.SliceSource, n)
	for i := range n {
		var sb strings.Builder
		for w := range words {
			if w > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(vocabulary[(i*7+w)%len(vocabulary)])
		}
		docs[i] = index.Document{ID: fmt.Sprintf("%d", i+1), Text: sb.String()}
	}
	return docs
}

func buildIndex(b *testing.B, n int) *index.Index {
	b.Helper()
	idx, err := index.Build(context.Background(), syntheticCorpus(n, 120), normalizer.Default())
	if err != nil {
		b.Fatal(err)
	}
	return idx
}

// BenchmarkBuild measures full index construction at several corpus sizes.
func BenchmarkBuild(b *testing.B) {
	for _, n := range []int{100, 1000, 5000} {
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			src := syntheticCorpus(n, 120)
			norm := normalizer.Default()
			b.ReportAllocs()
			for b.Loop() {
				if _, err := index.Build(context.Background(), src, norm); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSnapshot measures the cost of flattening the index before a
// segment write.
func BenchmarkSnapshot(b *testing.B) {
	idx := buildIndex(b, 5000)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		entries, docs := idx.Snapshot()
		_, _ = entries, docs
	}
}

// BenchmarkSegmentRoundTrip measures writing a snapshot to disk and loading
// it back into a searchable index.
func BenchmarkSegmentRoundTrip(b *testing.B) {
	idx := buildIndex(b, 1000)
	path := filepath.Join(b.TempDir(), "index.spdx")
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if err := segment.NewWriter(path).Write(idx); err != nil {
			b.Fatal(err)
		}
		if _, err := segment.Load(path, idx.Normalizer()); err != nil {
			b.Fatal(err)
		}
	}
}
