package normalizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stopwords is a set of lower-cased words dropped before stemming.
type Stopwords map[string]struct{}

func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s Stopwords) Len() int {
	return len(s)
}

// LoadStopwords reads one word per line. Lines are trimmed and lower-cased;
// blank lines are skipped.
func LoadStopwords(r io.Reader) (Stopwords, error) {
	set := make(Stopwords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stopwords: %w", err)
	}
	return set, nil
}

// LoadStopwordsFile loads a stop-word list from path. An empty path yields
// the built-in list.
func LoadStopwordsFile(path string) (Stopwords, error) {
	if path == "" {
		return DefaultStopwords(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopword file %s: %w", path, err)
	}
	defer f.Close()
	return LoadStopwords(f)
}

var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at",
	"be", "by", "for", "from", "has", "he",
	"in", "is", "it", "its", "of", "on",
	"or", "that", "the", "to", "was", "were",
	"will", "with", "this", "but", "they",
	"have", "had", "what", "when", "where",
	"who", "which", "their", "if", "each",
	"do", "not", "no", "so", "can",
}

// DefaultStopwords returns a fresh copy of the built-in English list.
func DefaultStopwords() Stopwords {
	set := make(Stopwords, len(defaultStopwords))
	for _, w := range defaultStopwords {
		set[w] = struct{}{}
	}
	return set
}
