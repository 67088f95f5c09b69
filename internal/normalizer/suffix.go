package normalizer

import (
	"strings"
	"unicode"
)

var suffixStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

type suffixRule struct {
	suffix      string
	replacement string
	minLen      int
}

// Longest suffixes first; the first rule whose result is long enough wins.
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

// SuffixAnalyzer is a dependency-free english Analyzer built on a short
// stopword list and a suffix-stripping rule table. It is cheaper and much
// cruder than SnowballAnalyzer.
type SuffixAnalyzer struct {
	// StemStopwords lets Stem strip suffixes from stopwords, which a
	// Normalizer only passes it when stopwords are kept.
	StemStopwords bool
}

func (SuffixAnalyzer) IsStopword(word string) bool {
	_, ok := suffixStopWords[word]
	return ok
}

// Stem applies the first rule whose suffix matches and whose result keeps
// at least minLen bytes. Words with a digit or without any letter are kept
// whole, so "1990s" does not collapse into "1990".
func (a SuffixAnalyzer) Stem(word string) string {
	if !a.StemStopwords && a.IsStopword(word) {
		return word
	}
	if strings.IndexFunc(word, unicode.IsLetter) < 0 || strings.IndexFunc(word, unicode.IsDigit) >= 0 {
		return word
	}
	for _, rule := range suffixRules {
		if stem, ok := strings.CutSuffix(word, rule.suffix); ok {
			stem += rule.replacement
			if len(stem) >= rule.minLen {
				return stem
			}
		}
	}
	return word
}
