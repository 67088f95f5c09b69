package ngram

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFooBarBaz(t *testing.T) {
	got := slices.Collect(Extract([]string{"foo", "bar", "baz"}, 2))
	want := []NGram{
		Unigram("foo"), Unigram("bar"), Unigram("baz"),
		Bigram("foo", "bar"), Bigram("bar", "baz"),
	}
	assert.Equal(t, want, got)
}

func TestExtractEdgeCases(t *testing.T) {
	assert.Empty(t, slices.Collect(Extract(nil, 2)))
	assert.Equal(t, []NGram{Unigram("solo")}, slices.Collect(Extract([]string{"solo"}, 2)))
	assert.Equal(t,
		[]NGram{Unigram("a"), Unigram("b")},
		slices.Collect(Extract([]string{"a", "b"}, 1)),
	)
}

func TestExtractCountProperty(t *testing.T) {
	for n := 0; n <= 12; n++ {
		tokens := make([]string, n)
		for i := range tokens {
			tokens[i] = fmt.Sprintf("t%d", i%3)
		}
		for _, order := range []int{1, 2} {
			got := slices.Collect(Extract(tokens, order))
			require.Len(t, got, Count(n, order), "n=%d order=%d", n, order)

			unigrams := 0
			for i, g := range got {
				if g.Order() == 1 {
					unigrams++
					assert.Less(t, i, n, "unigrams must precede bigrams")
				}
			}
			assert.Equal(t, n, unigrams)
		}
	}
	assert.Equal(t, 0, Count(0, 2))
	assert.Equal(t, 1, Count(1, 2))
	assert.Equal(t, 9, Count(5, 2))
}

func TestExtractIsRestartable(t *testing.T) {
	seq := Extract([]string{"x", "y", "z"}, 2)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
}

func TestExtractStopsEarly(t *testing.T) {
	var seen []NGram
	for g := range Extract([]string{"a", "b", "c"}, 2) {
		seen = append(seen, g)
		if len(seen) == 4 {
			break
		}
	}
	assert.Equal(t, []NGram{Unigram("a"), Unigram("b"), Unigram("c"), Bigram("a", "b")}, seen)
}

func TestNGramEquality(t *testing.T) {
	assert.NotEqual(t, Bigram("a", "b"), Bigram("b", "a"))
	assert.Equal(t, Bigram("a", "b"), Bigram("a", "b"))
	assert.NotEqual(t, Unigram("a"), Bigram("a", ""))

	m := map[NGram]int{Bigram("found", "bargain"): 4}
	assert.Equal(t, 4, m[Bigram("found", "bargain")])
}

func TestStringAndParse(t *testing.T) {
	tests := []struct {
		in   NGram
		want string
	}{
		{Unigram("bargain"), "bargain"},
		{Bigram("found", "bargain"), "found|bargain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
		parsed, err := Parse(tt.want)
		require.NoError(t, err)
		assert.Equal(t, tt.in, parsed)
	}
	assert.Equal(t, []string{"found", "bargain"}, Bigram("found", "bargain").Tokens())

	for _, bad := range []string{"", "a|b|c", "|b", "a|"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func BenchmarkExtract(b *testing.B) {
	tokens := make([]string, 200)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok%d", i%40)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for g := range Extract(tokens, 2) {
			_ = g
		}
	}
}
