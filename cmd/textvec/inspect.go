package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/csvio"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/matrix"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vectorizer"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <vectors.csv> <vocabulary.csv>",
		Short: "Summarize a vectorized file as a sparse matrix",
		Long: `inspect loads a vectorized file as a record-by-vocabulary matrix and prints
its shape and density. When the vectors were built from the same corpus as
the vocabulary, every column total equals the vocabulary count, and inspect
reports whether that holds.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vectors, err := csvio.ReadVectors(ctx, args[0])
			if err != nil {
				return err
			}
			vocab, err := csvio.ReadVocabulary(ctx, args[1])
			if err != nil {
				return err
			}
			fvs := make([]vectorizer.FeatureVector, len(vectors))
			for i, v := range vectors {
				fvs[i] = v.Vector
			}
			m, err := matrix.FromVectors(fvs, vocab.Len())
			if err != nil {
				return fmt.Errorf("%s does not match %s: %w", args[0], args[1], err)
			}

			mismatched := 0
			totals := m.ColumnTotals()
			for _, e := range vocab.Entries() {
				if totals[e.Index] != float64(e.Count) {
					mismatched++
				}
			}
			rows, cols := m.Dims()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "records:     %d\n", rows)
			fmt.Fprintf(out, "vocabulary:  %d\n", cols)
			fmt.Fprintf(out, "non-zero:    %d\n", m.NNZ())
			fmt.Fprintf(out, "density:     %.6f\n", m.Density())
			fmt.Fprintf(out, "same corpus: %t (%d columns differ)\n", mismatched == 0, mismatched)
			return nil
		},
	}
}
