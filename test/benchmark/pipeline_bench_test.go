package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/normalizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Distributed search engines process queries across multiple shards to achieve
        horizontal scalability. Each shard maintains its own inverted index and responds
        to queries independently. Results are merged using a global ranking algorithm
        that accounts for term frequency and inverse document frequency across the
        entire corpus.`,
	"long": strings.Repeat(`Information retrieval systems combine tokenization, stemming, and
        stop word removal to normalize text into searchable terms. Bag of n-gram
        features count unigrams and bigrams of the surviving stems. `, 20),
}

func BenchmarkNormalize(b *testing.B) {
	analyzers := map[string]normalizer.Analyzer{
		"snowball": normalizer.SnowballAnalyzer{},
		"suffix":   normalizer.SuffixAnalyzer{},
	}
	for aname, analyzer := range analyzers {
		n := normalizer.New(analyzer)
		for name, text := range sampleTexts {
			b.Run(aname+"/"+name, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(text)))
				for i := 0; i < b.N; i++ {
					_ = n.Normalize(text)
				}
			})
		}
	}
}

func corpus(n int) []record.Record {
	records := make([]record.Record, n)
	texts := []string{sampleTexts["short"], sampleTexts["medium"], sampleTexts["long"]}
	for i := range records {
		records[i] = record.Record{Label: fmt.Sprintf("doc-%d", i), Text: texts[i%len(texts)]}
	}
	return records
}

func BenchmarkRun(b *testing.B) {
	for _, size := range []int{100, 1000} {
		records := corpus(size)
		b.Run(fmt.Sprintf("records_%d", size), func(b *testing.B) {
			p, err := pipeline.New(normalizer.New(normalizer.SnowballAnalyzer{}), vocabulary.DefaultOptions(), nil)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.Run(context.Background(), records); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
