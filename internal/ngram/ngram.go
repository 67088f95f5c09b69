// Package ngram defines the unigram/bigram value type and the extractor
// that turns a token sequence into n-grams.
package ngram

import (
	"fmt"
	"iter"
	"strings"
)

// MaxOrder is the highest supported n-gram order.
const MaxOrder = 2

// Separator joins the tokens of an n-gram in its persisted form.
const Separator = "|"

// NGram is an ordered tuple of one or two tokens. It is comparable and can
// be used as a map key; ("a","b") and ("b","a") are different n-grams.
type NGram struct {
	tokens [MaxOrder]string
	order  int
}

func Unigram(a string) NGram {
	return NGram{tokens: [MaxOrder]string{a}, order: 1}
}

func Bigram(a, b string) NGram {
	return NGram{tokens: [MaxOrder]string{a, b}, order: 2}
}

// Order returns the number of tokens in g.
func (g NGram) Order() int { return g.order }

// Tokens returns a copy of the tokens of g.
func (g NGram) Tokens() []string {
	out := make([]string, g.order)
	copy(out, g.tokens[:g.order])
	return out
}

// String renders g in the persisted form: "tok" or "tok1|tok2".
func (g NGram) String() string {
	return strings.Join(g.tokens[:g.order], Separator)
}

// Parse is the inverse of String.
func Parse(s string) (NGram, error) {
	parts := strings.Split(s, Separator)
	switch {
	case s == "":
		return NGram{}, fmt.Errorf("empty n-gram")
	case len(parts) == 1:
		return Unigram(parts[0]), nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return Bigram(parts[0], parts[1]), nil
	default:
		return NGram{}, fmt.Errorf("n-gram %q must have 1 or %d non-empty tokens", s, MaxOrder)
	}
}

// Extract yields every unigram of tokens in order, followed by every
// adjacent bigram in order when maxOrder is at least 2. The sequence is
// lazy and can be ranged over any number of times.
func Extract(tokens []string, maxOrder int) iter.Seq[NGram] {
	return func(yield func(NGram) bool) {
		for _, tok := range tokens {
			if !yield(Unigram(tok)) {
				return
			}
		}
		if maxOrder < 2 {
			return
		}
		for i := 1; i < len(tokens); i++ {
			if !yield(Bigram(tokens[i-1], tokens[i])) {
				return
			}
		}
	}
}

// Count returns how many n-grams Extract yields for n tokens.
func Count(n, maxOrder int) int {
	if n == 0 {
		return 0
	}
	if maxOrder < 2 {
		return n
	}
	return 2*n - 1
}
