package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/ngram"
)

// fakeAnalyzer keeps words unchanged unless a stem is configured.
type fakeAnalyzer struct {
	stop  map[string]bool
	stems map[string]string
}

func (f fakeAnalyzer) IsStopword(word string) bool { return f.stop[word] }

func (f fakeAnalyzer) Stem(word string) string {
	if s, ok := f.stems[word]; ok {
		return s
	}
	return word
}

func TestNormalize(t *testing.T) {
	fake := fakeAnalyzer{
		stop:  map[string]bool{"the": true, "a": true},
		stems: map[string]string{"dogs": "dog", "barked": "bark"},
	}
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", " \t\n ", []string{}},
		{"identity", "foo bar baz", []string{"foo", "bar", "baz"}},
		{"lowercases before stopword check", "The Dogs barked", []string{"dog", "bark"}},
		{"stopwords leave no gap", "dogs the a barked", []string{"dog", "bark"}},
		{"only stopwords", "The a THE", []string{}},
		{"mixed whitespace", "foo\tbar\n\nbaz", []string{"foo", "bar", "baz"}},
		{"separator splits words", "yes|no a|b|", []string{"yes", "no", "b"}},
		{"separator only", "| || |", []string{}},
	}
	n := New(fake)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.text))
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	n := New(SnowballAnalyzer{})
	text := "Distributed search engines process queries across multiple shards"
	assert.Equal(t, n.Normalize(text), n.Normalize(text))
}

func TestSnowballAnalyzer(t *testing.T) {
	n := New(SnowballAnalyzer{})
	assert.Equal(t, []string{"run", "dog"}, n.Normalize("The running dogs"))

	a := SnowballAnalyzer{}
	assert.True(t, a.IsStopword("the"))
	assert.False(t, a.IsStopword("bargain"))
}

func TestSuffixAnalyzer(t *testing.T) {
	a := SuffixAnalyzer{}
	assert.True(t, a.IsStopword("with"))
	assert.False(t, a.IsStopword("search"))
	assert.Equal(t, "search", a.Stem("searching"))
	assert.Equal(t, "index", a.Stem("indexes"))
	assert.Equal(t, "is", a.Stem("is"))

	n := New(a)
	assert.Equal(t, []string{"search", "index"}, n.Normalize("Searching the indexes"))
}

func TestNormalizeNeverEmitsSeparator(t *testing.T) {
	for name, a := range map[string]Analyzer{"snowball": SnowballAnalyzer{}, "suffix": SuffixAnalyzer{}} {
		t.Run(name, func(t *testing.T) {
			tokens := New(a).Normalize("yes|no yes|no|maybe running|dogs |leading trailing|")
			require.NotEmpty(t, tokens)
			for _, tok := range tokens {
				assert.NotContains(t, tok, ngram.Separator)
				assert.NotEmpty(t, tok)
			}
		})
	}
}

func TestKeepStopwords(t *testing.T) {
	text := "The having being running dogs"

	dropped := New(SnowballAnalyzer{StemStopwords: true}).Normalize(text)
	assert.Equal(t, []string{"run", "dog"}, dropped, "stemming stopwords alone changes nothing")

	kept := New(SnowballAnalyzer{}, KeepStopwords()).Normalize(text)
	assert.Equal(t, []string{"the", "having", "being", "run", "dog"}, kept)

	stemmed := New(SnowballAnalyzer{StemStopwords: true}, KeepStopwords()).Normalize(text)
	require.Len(t, stemmed, 5)
	assert.Equal(t, "have", stemmed[1])
	assert.Equal(t, []string{"run", "dog"}, stemmed[3:])
	assert.NotEqual(t, kept, stemmed)
}

func TestSuffixAnalyzerStopwordToggle(t *testing.T) {
	assert.Equal(t, "this", SuffixAnalyzer{}.Stem("this"))
	assert.Equal(t, "thi", SuffixAnalyzer{StemStopwords: true}.Stem("this"))
	assert.Equal(t, []string{"this", "search"}, New(SuffixAnalyzer{}, KeepStopwords()).Normalize("this searching"))
}

func TestSuffixAnalyzerKeepsNumbers(t *testing.T) {
	a := SuffixAnalyzer{}
	assert.Equal(t, "1990s", a.Stem("1990s"))
	assert.Equal(t, "2024", a.Stem("2024"))
	assert.Equal(t, "--", a.Stem("--"))
}

func TestSnowballLanguages(t *testing.T) {
	assert.Contains(t, Languages(), "english")
	assert.Contains(t, Languages(), "spanish")

	es := SnowballAnalyzer{Language: "spanish"}
	assert.True(t, es.IsStopword("de"))
	assert.False(t, SnowballAnalyzer{}.IsStopword("de"))
}

func TestNewAnalyzer(t *testing.T) {
	a, err := NewAnalyzer("english", "snowball", true)
	require.NoError(t, err)
	assert.Equal(t, SnowballAnalyzer{Language: "english", StemStopwords: true}, a)

	a, err = NewAnalyzer("", "", false)
	require.NoError(t, err)
	assert.Equal(t, SnowballAnalyzer{Language: "english"}, a)

	a, err = NewAnalyzer("french", "snowball", false)
	require.NoError(t, err)
	assert.Equal(t, SnowballAnalyzer{Language: "french"}, a)

	a, err = NewAnalyzer("english", "suffix", true)
	require.NoError(t, err)
	assert.Equal(t, SuffixAnalyzer{StemStopwords: true}, a)

	_, err = NewAnalyzer("english", "lancaster", false)
	assert.Error(t, err)
	_, err = NewAnalyzer("klingon", "snowball", false)
	assert.Error(t, err)
	_, err = NewAnalyzer("french", "suffix", false)
	assert.Error(t, err)
}

func BenchmarkNormalize(b *testing.B) {
	text := strings.Repeat(`Information retrieval systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. `, 20)
	for name, analyzer := range map[string]Analyzer{"snowball": SnowballAnalyzer{}, "suffix": SuffixAnalyzer{}} {
		n := New(analyzer)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = n.Normalize(text)
			}
		})
	}
}
