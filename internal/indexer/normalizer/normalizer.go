// Package normalizer turns raw text into the sequence of index terms used by
// both the index builder and query-time lookups. It lower-cases input, splits
// on runs of non-word characters, removes stop-words and stems what remains.
package normalizer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalizer is safe for concurrent use once constructed; it holds no
// mutable state.
type Normalizer struct {
	stopwords Stopwords
	stemmer   Stemmer
}

// New creates a Normalizer. A nil stopword set disables stop-word removal and
// a nil stemmer leaves tokens unstemmed.
func New(stopwords Stopwords, stemmer Stemmer) *Normalizer {
	if stopwords == nil {
		stopwords = Stopwords{}
	}
	if stemmer == nil {
		stemmer = IdentityStemmer{}
	}
	return &Normalizer{
		stopwords: stopwords,
		stemmer:   stemmer,
	}
}

// Default returns a Normalizer with the built-in English stop-words and the
// Snowball English stemmer.
func Default() *Normalizer {
	return New(DefaultStopwords(), SnowballStemmer{})
}

// Tokens yields the lower-cased raw tokens of text in order. The sequence is
// lazy and may be ranged over any number of times.
func (n *Normalizer) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		text := strings.ToLower(text)
		start := -1
		for i, r := range text {
			if isWordRune(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(text[start:i]) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(text[start:])
		}
	}
}

// Terms yields (offset, term) pairs. Offsets are dense over the surviving
// terms: a dropped stop-word does not consume an offset.
func (n *Normalizer) Terms(text string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		pos := 0
		for tok := range n.Tokens(text) {
			if n.stopwords.Contains(tok) {
				continue
			}
			if !yield(pos, n.stemmer.Stem(tok)) {
				return
			}
			pos++
		}
	}
}

// Normalize returns the full term stream for text.
func (n *Normalizer) Normalize(text string) []string {
	terms := make([]string, 0, utf8.RuneCountInString(text)/6+1)
	for _, term := range n.Terms(text) {
		terms = append(terms, term)
	}
	return terms
}

// StemTerm maps a single query word onto the index vocabulary. Only
// case-folding and stemming are applied; stop-words are not filtered, so a
// stop-word simply finds no postings.
func (n *Normalizer) StemTerm(word string) string {
	return n.stemmer.Stem(strings.ToLower(word))
}

// StemmerName reports which stemmer the normalizer was built with.
func (n *Normalizer) StemmerName() string {
	return n.stemmer.Name()
}

// isWordRune matches the \w class: letters, numbers and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
