// Package pipeline runs the three vectorization phases in order:
// NORMALIZE, BUILD_VOCABULARY, VECTORIZE. Each phase materializes its whole
// output before the next starts, and the vocabulary is frozen before any
// vector is produced. Cancellation is only observed between records.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/normalizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vectorizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/tracing"
)

// Stats summarizes one run.
type Stats struct {
	Records         int
	TotalNGrams     int
	DistinctNGrams  int
	VocabularySize  int
	InVocabulary    int
	OutOfVocabulary int
	EmptyVectors    int
}

// Result is everything a run produced. Sinks only ever see a complete
// Result.
type Result struct {
	RunID      string
	StartedAt  time.Time
	Options    vocabulary.Options
	Normalized []record.Normalized
	Vocabulary *vocabulary.Vocabulary
	Vectors    []vectorizer.Vectorized
	Stats      Stats
	// Trace is the span tree of the run: one child per phase.
	Trace *tracing.Span
}

type Pipeline struct {
	normalizer *normalizer.Normalizer
	opts       vocabulary.Options
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Pipeline. A nil m records into a private registry.
func New(n *normalizer.Normalizer, opts vocabulary.Options, m *metrics.Metrics) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline options: %w", err)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Pipeline{
		normalizer: n,
		opts:       opts,
		metrics:    m,
		logger:     slog.Default().With("component", "pipeline"),
	}, nil
}

// Options returns the vocabulary options the pipeline was built with.
func (p *Pipeline) Options() vocabulary.Options { return p.opts }

// Run executes all three phases over records under a fresh run id.
func (p *Pipeline) Run(ctx context.Context, records []record.Record) (*Result, error) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	ctx, root := tracing.StartRun(ctx, "vectorize_text", runID)

	res := &Result{RunID: runID, StartedAt: time.Now().UTC(), Options: p.opts, Trace: root}
	log := logger.FromContext(ctx).With("component", "pipeline")
	log.Info("run started",
		"records", len(records),
		"min_support", p.opts.MinSupport,
		"max_ngram_order", p.opts.MaxOrder,
	)

	normalized, err := p.Normalize(ctx, records)
	if err != nil {
		return nil, err
	}
	res.Normalized = normalized

	vocab, stats, err := p.buildVocabulary(ctx, normalized)
	if err != nil {
		return nil, err
	}
	res.Vocabulary = vocab
	res.Stats = stats

	vectors, vstats, err := p.vectorize(ctx, normalized, vocab)
	if err != nil {
		return nil, err
	}
	res.Vectors = vectors
	res.Stats.InVocabulary = vstats.InVocabulary
	res.Stats.OutOfVocabulary = vstats.OutOfVocabulary
	for _, v := range vectors {
		if v.Vector.Len() == 0 {
			res.Stats.EmptyVectors++
		}
	}

	root.SetAttr("records", res.Stats.Records)
	root.SetAttr("vocabulary_size", res.Stats.VocabularySize)
	log.Info("run finished",
		"records", res.Stats.Records,
		"vocabulary_size", res.Stats.VocabularySize,
		"empty_vectors", res.Stats.EmptyVectors,
		"duration", root.End().Round(time.Millisecond),
	)
	return res, nil
}

// phase wraps one phase in a span, a duration observation and start/finish
// log lines.
func (p *Pipeline) phase(ctx context.Context, name, progress string, fn func(ctx context.Context, span *tracing.Span) error) error {
	ctx, span := tracing.StartChild(ctx, name)
	log := logger.FromContext(ctx).With("component", "pipeline", "phase", name)
	log.Info(progress)
	err := fn(ctx, span)
	d := span.End()
	p.metrics.PhaseDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		log.Error("phase failed", "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug("phase finished", "duration", d.Round(time.Millisecond))
	return nil
}

// Normalize assigns each record its input position and normalizes its text.
func (p *Pipeline) Normalize(ctx context.Context, records []record.Record) ([]record.Normalized, error) {
	out := make([]record.Normalized, 0, len(records))
	err := p.phase(ctx, metrics.PhaseNormalize, "stemming text", func(ctx context.Context, span *tracing.Span) error {
		counter := p.metrics.RecordsTotal.WithLabelValues(metrics.PhaseNormalize)
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			out = append(out, record.Normalized{
				Seq:    i,
				Label:  rec.Label,
				Tokens: p.normalizer.Normalize(rec.Text),
			})
			counter.Inc()
		}
		span.SetAttr("records", len(out))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildVocabulary counts n-grams over every normalized record and freezes
// the vocabulary.
func (p *Pipeline) BuildVocabulary(ctx context.Context, normalized []record.Normalized) (*vocabulary.Vocabulary, error) {
	vocab, _, err := p.buildVocabulary(ctx, normalized)
	return vocab, err
}

func (p *Pipeline) buildVocabulary(ctx context.Context, normalized []record.Normalized) (*vocabulary.Vocabulary, Stats, error) {
	var vocab *vocabulary.Vocabulary
	var stats Stats
	err := p.phase(ctx, metrics.PhaseBuildVocabulary, "counting bigrams", func(ctx context.Context, span *tracing.Span) error {
		b, err := vocabulary.NewBuilder(p.opts)
		if err != nil {
			return err
		}
		counter := p.metrics.RecordsTotal.WithLabelValues(metrics.PhaseBuildVocabulary)
		for _, rec := range normalized {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.Add(rec)
			counter.Inc()
		}
		vocab = b.Build()
		stats = Stats{
			Records:        b.Records(),
			TotalNGrams:    b.Total(),
			DistinctNGrams: b.Distinct(),
			VocabularySize: vocab.Len(),
		}
		p.metrics.VocabularySize.Set(float64(vocab.Len()))
		p.metrics.DistinctNGrams.Set(float64(b.Distinct()))
		span.SetAttr("distinct_ngrams", b.Distinct())
		span.SetAttr("vocabulary_size", vocab.Len())
		if vocab.Len() == 0 {
			logger.FromContext(ctx).Warn("no n-gram reached minimum support; every vector will be empty",
				"min_support", p.opts.MinSupport,
				"distinct_ngrams", b.Distinct(),
			)
		}
		return nil
	})
	if err != nil {
		return nil, Stats{}, err
	}
	return vocab, stats, nil
}

// Vectorize encodes every normalized record against the frozen vocabulary.
func (p *Pipeline) Vectorize(ctx context.Context, normalized []record.Normalized, vocab *vocabulary.Vocabulary) ([]vectorizer.Vectorized, error) {
	out, _, err := p.vectorize(ctx, normalized, vocab)
	return out, err
}

func (p *Pipeline) vectorize(ctx context.Context, normalized []record.Normalized, vocab *vocabulary.Vocabulary) ([]vectorizer.Vectorized, vectorizer.Stats, error) {
	out := make([]vectorizer.Vectorized, 0, len(normalized))
	z := vectorizer.New(vocab)
	err := p.phase(ctx, metrics.PhaseVectorize, "vectorizing text", func(ctx context.Context, span *tracing.Span) error {
		counter := p.metrics.RecordsTotal.WithLabelValues(metrics.PhaseVectorize)
		for _, rec := range normalized {
			if err := ctx.Err(); err != nil {
				return err
			}
			out = append(out, z.Record(rec))
			counter.Inc()
		}
		stats := z.Stats()
		p.metrics.NGramsTotal.WithLabelValues("in_vocabulary").Add(float64(stats.InVocabulary))
		p.metrics.NGramsTotal.WithLabelValues("out_of_vocabulary").Add(float64(stats.OutOfVocabulary))
		span.SetAttr("records", len(out))
		span.SetAttr("out_of_vocabulary", stats.OutOfVocabulary)
		return nil
	})
	if err != nil {
		return nil, vectorizer.Stats{}, err
	}
	return out, z.Stats(), nil
}
