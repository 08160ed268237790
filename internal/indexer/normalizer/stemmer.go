package normalizer

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stemmer maps a lower-cased token to its root. Implementations must be
// deterministic and idempotent: stemming a root returns it unchanged, so a
// query word that is already a root finds the documents indexed under it.
type Stemmer interface {
	Stem(token string) string
	Name() string
}

const (
	StemmerSnowball = "snowball"
	StemmerSuffix   = "suffix"
	StemmerNone     = "none"
)

// NewStemmer resolves a stemmer by its configured name. An empty name selects
// the Snowball stemmer.
func NewStemmer(name string) (Stemmer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StemmerSnowball:
		return SnowballStemmer{}, nil
	case StemmerSuffix:
		return SuffixStemmer{}, nil
	case StemmerNone:
		return IdentityStemmer{}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q", name)
	}
}

// maxStemPasses bounds the fixed-point loop; real words settle in two.
const maxStemPasses = 8

// untilStable reapplies step until the word stops changing.
func untilStable(word string, step func(string) string) string {
	for range maxStemPasses {
		next := step(word)
		if next == word {
			break
		}
		word = next
	}
	return word
}

// SnowballStemmer is the Porter2 English stemmer, iterated to a fixed point
// (one pass maps "agreed" to "agre" but "agre" to "agr").
type SnowballStemmer struct{}

func (SnowballStemmer) Stem(token string) string {
	return untilStable(token, func(w string) string { return english.Stem(w, true) })
}

func (SnowballStemmer) Name() string { return StemmerSnowball }

// IdentityStemmer returns tokens unchanged.
type IdentityStemmer struct{}

func (IdentityStemmer) Stem(token string) string { return token }

func (IdentityStemmer) Name() string { return StemmerNone }

type suffixRule struct {
	suffix      string
	replacement string
	minLen      int
}

// suffixRules are tried in order; the first suffix whose replacement leaves
// at least minLen bytes wins.
var suffixRules = []suffixRule{
	{"ational", "ate", 2},
	{"tional", "tion", 2},
	{"encies", "ence", 2},
	{"ances", "ance", 2},
	{"ments", "ment", 2},
	{"izing", "ize", 2},
	{"ating", "ate", 2},
	{"iness", "y", 2},
	{"ously", "ous", 2},
	{"ively", "ive", 2},
	{"eness", "ene", 2},
	{"tion", "t", 3},
	{"sion", "s", 3},
	{"ying", "y", 2},
	{"ling", "l", 3},
	{"ies", "y", 2},
	{"ing", "", 3},
	{"ers", "er", 2},
	{"est", "", 3},
	{"ful", "", 3},
	{"ous", "", 3},
	{"ess", "", 3},
	{"ble", "", 3},
	{"ed", "", 3},
	{"er", "", 3},
	{"ly", "", 3},
	{"es", "", 3},
	{"ss", "ss", 2},
	{"s", "", 3},
}

// SuffixStemmer is a small rule-table stemmer. It is cheaper than Snowball
// and handy when exact Porter behaviour is not required. Rules chain
// ("nationally" to "national" to "nate"), so they are applied until none
// fires.
type SuffixStemmer struct{}

func (SuffixStemmer) Stem(word string) string {
	return untilStable(word, stripSuffix)
}

// stripSuffix applies the first matching rule once.
func stripSuffix(word string) string {
	for _, rule := range suffixRules {
		if strings.HasSuffix(word, rule.suffix) {
			newWord := word[:len(word)-len(rule.suffix)] + rule.replacement
			if len(newWord) >= rule.minLen {
				return newWord
			}
		}
	}
	return word
}

func (SuffixStemmer) Name() string { return StemmerSuffix }
