package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/csvio"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
)

// outputArg returns args[i] when given, otherwise the derived path.
func outputArg(args []string, i int, derived string) string {
	if len(args) > i {
		return args[i]
	}
	return derived
}

func (a *app) stagePath(input, suffix string) string {
	return csvio.InDir(a.cfg.Output.Dir, csvio.StagePath(input, suffix))
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <input.csv> [output.csv]",
		Short: "Lowercase, drop stopwords and stem every record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			out := outputArg(args, 1, a.paths(args[0]).Normalized)
			if err := p.NormalizeFile(cmd.Context(), args[0], out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <normalized.csv> [vocabulary.csv]",
		Short: "Count n-grams and write the ranked vocabulary",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			out := outputArg(args, 1, a.stagePath(args[0], pipeline.SuffixVocabulary))
			if err := p.CountFile(cmd.Context(), args[0], out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newVectorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vectorize <normalized.csv> <vocabulary.csv> [vectors.csv]",
		Short: "Encode normalized records against a vocabulary file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			out := outputArg(args, 2, a.stagePath(args[0], pipeline.SuffixVectorized))
			if err := p.VectorizeFile(cmd.Context(), args[0], args[1], out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
