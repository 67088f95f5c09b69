// Package normalizer turns raw record text into the ordered sequence of
// stemmed, non-stopword tokens that n-gram extraction works on.
package normalizer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/french"
	"github.com/kljensen/snowball/hungarian"
	"github.com/kljensen/snowball/norwegian"
	"github.com/kljensen/snowball/russian"
	"github.com/kljensen/snowball/spanish"
	"github.com/kljensen/snowball/swedish"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/ngram"
)

// Analyzer is the linguistic capability the Normalizer depends on. Both
// methods receive a single lowercase word.
type Analyzer interface {
	IsStopword(word string) bool
	Stem(word string) string
}

type snowballLanguage struct {
	isStopword func(word string) bool
	stem       func(word string, stemStopwords bool) string
}

var snowballLanguages = map[string]snowballLanguage{
	"english":   {english.IsStopWord, english.Stem},
	"french":    {french.IsStopWord, french.Stem},
	"hungarian": {hungarian.IsStopWord, hungarian.Stem},
	"norwegian": {norwegian.IsStopWord, norwegian.Stem},
	"russian":   {russian.IsStopWord, russian.Stem},
	"spanish":   {spanish.IsStopWord, spanish.Stem},
	"swedish":   {swedish.IsStopWord, swedish.Stem},
}

// Languages lists the languages the snowball analyzer supports.
func Languages() []string {
	names := make([]string, 0, len(snowballLanguages))
	for name := range snowballLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SnowballAnalyzer uses the snowball stemmer and stopword list of Language,
// english when empty.
type SnowballAnalyzer struct {
	Language string
	// StemStopwords lets Stem reduce stopwords. It only changes the output
	// of a Normalizer that keeps stopwords.
	StemStopwords bool
}

func (a SnowballAnalyzer) lang() snowballLanguage {
	if l, ok := snowballLanguages[a.Language]; ok {
		return l
	}
	return snowballLanguages["english"]
}

func (a SnowballAnalyzer) IsStopword(word string) bool {
	return a.lang().isStopword(word)
}

func (a SnowballAnalyzer) Stem(word string) string {
	return a.lang().stem(word, a.StemStopwords)
}

// NewAnalyzer returns the Analyzer registered under name for language.
func NewAnalyzer(language, name string, stemStopwords bool) (Analyzer, error) {
	if language == "" {
		language = "english"
	}
	switch name {
	case "", "snowball":
		if _, ok := snowballLanguages[language]; !ok {
			return nil, fmt.Errorf("snowball stemmer has no %q support", language)
		}
		return SnowballAnalyzer{Language: language, StemStopwords: stemStopwords}, nil
	case "suffix":
		if language != "english" {
			return nil, fmt.Errorf("suffix stemmer only supports english, got %q", language)
		}
		return SuffixAnalyzer{StemStopwords: stemStopwords}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q", name)
	}
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// KeepStopwords makes the Normalizer stem stopwords instead of dropping
// them.
func KeepStopwords() Option {
	return func(n *Normalizer) { n.keepStopwords = true }
}

// Normalizer lowercases, filters and stems words.
type Normalizer struct {
	analyzer      Analyzer
	keepStopwords bool
}

func New(analyzer Analyzer, opts ...Option) *Normalizer {
	n := &Normalizer{analyzer: analyzer}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// isBoundary splits words on whitespace and on the n-gram separator, so no
// token can contain it.
func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(ngram.Separator, r)
}

// Normalize splits text into words and returns the stems of every
// non-stopword, in input order. Dropped words leave no gap, so bigrams are
// formed over the surviving sequence.
func (n *Normalizer) Normalize(text string) []string {
	words := strings.FieldsFunc(text, isBoundary)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		lower := strings.ToLower(word)
		if !n.keepStopwords && n.analyzer.IsStopword(lower) {
			continue
		}
		tokens = append(tokens, n.analyzer.Stem(lower))
	}
	return tokens
}
