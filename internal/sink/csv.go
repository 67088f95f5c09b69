package sink

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/csvio"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
)

// CSV writes the stage files of a run. The vectorized file is always
// written; the normalized and vocabulary files only when keepIntermediate is
// set.
type CSV struct {
	paths            pipeline.Paths
	keepIntermediate bool
}

func NewCSV(paths pipeline.Paths, keepIntermediate bool) *CSV {
	return &CSV{paths: paths, keepIntermediate: keepIntermediate}
}

func (c *CSV) Name() string { return "csv" }

func (c *CSV) Write(ctx context.Context, res *pipeline.Result) error {
	if c.keepIntermediate {
		if err := csvio.WriteNormalized(c.paths.Normalized, res.Normalized); err != nil {
			return fmt.Errorf("writing normalized records: %w", err)
		}
		if err := csvio.WriteVocabulary(c.paths.Vocabulary, res.Vocabulary); err != nil {
			return fmt.Errorf("writing vocabulary: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := csvio.WriteVectors(c.paths.Vectorized, res.Vectors); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}
	return nil
}

// Output is the path of the vectorized file.
func (c *CSV) Output() string { return c.paths.Vectorized }

func (c *CSV) Close() error { return nil }
