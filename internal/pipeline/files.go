package pipeline

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/csvio"
)

// Stage file suffixes.
const (
	SuffixNormalized = "stemmed"
	SuffixVocabulary = "bigram_counts"
	SuffixVectorized = "vectorized"
)

// Paths are the files of one staged run. Each stage file sits next to its
// predecessor (or in Dir) and adds a suffix to its name.
type Paths struct {
	Input      string
	Normalized string
	Vocabulary string
	Vectorized string
}

// PathsFor derives every stage path from the input path. A non-empty dir
// relocates the derived files; compress forces gzip stage files.
func PathsFor(input, dir string, compress bool) Paths {
	base := input
	if compress && !csvio.IsCompressed(base) {
		base += ".gz"
	}
	normalized := csvio.StagePath(base, SuffixNormalized)
	return Paths{
		Input:      input,
		Normalized: csvio.InDir(dir, normalized),
		Vocabulary: csvio.InDir(dir, csvio.StagePath(normalized, SuffixVocabulary)),
		Vectorized: csvio.InDir(dir, csvio.StagePath(normalized, SuffixVectorized)),
	}
}

// NormalizeFile reads label,text records from in and writes the normalized
// records to out.
func (p *Pipeline) NormalizeFile(ctx context.Context, in, out string) error {
	records, err := csvio.ReadRecords(ctx, in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	normalized, err := p.Normalize(ctx, records)
	if err != nil {
		return err
	}
	if err := csvio.WriteNormalized(out, normalized); err != nil {
		return fmt.Errorf("writing normalized records: %w", err)
	}
	p.logger.Info("normalized file written", "path", out, "records", len(normalized))
	return nil
}

// CountFile builds the vocabulary from a normalized file and writes it to
// out in rank order.
func (p *Pipeline) CountFile(ctx context.Context, normalizedPath, out string) error {
	normalized, err := csvio.ReadNormalized(ctx, normalizedPath)
	if err != nil {
		return fmt.Errorf("reading normalized records: %w", err)
	}
	vocab, err := p.BuildVocabulary(ctx, normalized)
	if err != nil {
		return err
	}
	if err := csvio.WriteVocabulary(out, vocab); err != nil {
		return fmt.Errorf("writing vocabulary: %w", err)
	}
	p.logger.Info("vocabulary file written", "path", out, "entries", vocab.Len())
	return nil
}

// VectorizeFile encodes a normalized file against the vocabulary file and
// writes the vectorized records to out.
func (p *Pipeline) VectorizeFile(ctx context.Context, normalizedPath, vocabularyPath, out string) error {
	vocab, err := csvio.ReadVocabulary(ctx, vocabularyPath)
	if err != nil {
		return fmt.Errorf("reading vocabulary: %w", err)
	}
	if vocab.MaxOrder() > p.opts.MaxOrder {
		return fmt.Errorf("vocabulary %s holds order-%d n-grams but the pipeline is limited to order %d",
			vocabularyPath, vocab.MaxOrder(), p.opts.MaxOrder)
	}
	normalized, err := csvio.ReadNormalized(ctx, normalizedPath)
	if err != nil {
		return fmt.Errorf("reading normalized records: %w", err)
	}
	vectors, err := p.Vectorize(ctx, normalized, vocab)
	if err != nil {
		return err
	}
	if err := csvio.WriteVectors(out, vectors); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}
	p.logger.Info("vectorized file written", "path", out, "records", len(vectors))
	return nil
}

// RunFiles runs the three stages through their files, the way each stage
// command does on its own.
func (p *Pipeline) RunFiles(ctx context.Context, paths Paths) error {
	if err := p.NormalizeFile(ctx, paths.Input, paths.Normalized); err != nil {
		return err
	}
	if err := p.CountFile(ctx, paths.Normalized, paths.Vocabulary); err != nil {
		return err
	}
	return p.VectorizeFile(ctx, paths.Normalized, paths.Vocabulary, paths.Vectorized)
}
