// Package vectorizer encodes normalized records as sparse count vectors
// against a frozen vocabulary.
package vectorizer

import (
	"slices"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/ngram"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
)

// FeatureVector is a sparse vector of n-gram counts. Indices are strictly
// increasing vocabulary indices and Counts[i] > 0 is the count at
// Indices[i]. The zero value is the empty vector.
type FeatureVector struct {
	Indices []int
	Counts  []int
}

// Len returns the number of stored (non-zero) entries.
func (fv FeatureVector) Len() int { return len(fv.Indices) }

// Get returns the count at vocabulary index i, 0 when absent.
func (fv FeatureVector) Get(i int) int {
	pos, found := slices.BinarySearch(fv.Indices, i)
	if !found {
		return 0
	}
	return fv.Counts[pos]
}

// Sum returns the total number of in-vocabulary n-gram occurrences.
func (fv FeatureVector) Sum() int {
	total := 0
	for _, c := range fv.Counts {
		total += c
	}
	return total
}

// FromMap builds a FeatureVector from an index -> count mapping, dropping
// zero counts.
func FromMap(m map[int]int) FeatureVector {
	indices := make([]int, 0, len(m))
	for idx, count := range m {
		if count != 0 {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		return FeatureVector{}
	}
	sort.Ints(indices)
	fv := FeatureVector{Indices: indices, Counts: make([]int, len(indices))}
	for i, idx := range indices {
		fv.Counts[i] = m[idx]
	}
	return fv
}

// Vectorized is the output of the VECTORIZE phase for one record.
type Vectorized struct {
	Seq    int
	Label  string
	Vector FeatureVector
}

// Stats counts how many extracted n-grams were found in the vocabulary.
type Stats struct {
	InVocabulary    int
	OutOfVocabulary int
}

func (s *Stats) add(o Stats) {
	s.InVocabulary += o.InVocabulary
	s.OutOfVocabulary += o.OutOfVocabulary
}

// Vectorizer encodes records against one frozen Vocabulary.
type Vectorizer struct {
	vocab *vocabulary.Vocabulary
	stats Stats
}

func New(vocab *vocabulary.Vocabulary) *Vectorizer {
	return &Vectorizer{vocab: vocab}
}

// Vectorize counts the in-vocabulary n-grams of tokens. Out-of-vocabulary
// n-grams are skipped.
func (z *Vectorizer) Vectorize(tokens []string) (FeatureVector, Stats) {
	var stats Stats
	counts := make(map[int]int)
	for g := range ngram.Extract(tokens, z.vocab.MaxOrder()) {
		idx, ok := z.vocab.Lookup(g)
		if !ok {
			stats.OutOfVocabulary++
			continue
		}
		counts[idx]++
		stats.InVocabulary++
	}
	z.stats.add(stats)
	return FromMap(counts), stats
}

// Record vectorizes one normalized record.
func (z *Vectorizer) Record(rec record.Normalized) Vectorized {
	fv, _ := z.Vectorize(rec.Tokens)
	return Vectorized{Seq: rec.Seq, Label: rec.Label, Vector: fv}
}

// Stats returns the totals accumulated over every call so far.
func (z *Vectorizer) Stats() Stats { return z.stats }

// Vectorize is the stateless form of (*Vectorizer).Vectorize.
func Vectorize(tokens []string, vocab *vocabulary.Vocabulary) FeatureVector {
	fv, _ := New(vocab).Vectorize(tokens)
	return fv
}
