package benchmark

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Boolean retrieval answers queries with the exact set of documents that
        satisfy a logical expression over terms. A positional inverted index records
        where each term occurs so phrase and proximity queries can be answered without
        rescanning the corpus.`,
	"long": strings.Repeat(`Information retrieval systems form the backbone of modern search
        infrastructure. These systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. The inverted index maps each
        term to the documents containing it, along with positional information for phrase
        queries. `, 20),
}

func BenchmarkNormalize(b *testing.B) {
	stemmers := []string{normalizer.StemmerSnowball, normalizer.StemmerSuffix, normalizer.StemmerNone}
	for _, name := range stemmers {
		stemmer, err := normalizer.NewStemmer(name)
		if err != nil {
			b.Fatal(err)
		}
		n := normalizer.New(normalizer.DefaultStopwords(), stemmer)
		for label, text := range sampleTexts {
			b.Run(name+"/"+label, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(text)))
				for b.Loop() {
					_ = n.Normalize(text)
				}
			})
		}
	}
}

func BenchmarkTerms(b *testing.B) {
	n := normalizer.Default()
	text := sampleTexts["long"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for b.Loop() {
		count := 0
		for range n.Terms(text) {
			count++
		}
		_ = count
	}
}
