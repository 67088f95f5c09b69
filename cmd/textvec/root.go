package main

import (
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/normalizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/metrics"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	outputDir  string
	minSupport int
	maxOrder   int
	stemmer    string
	language   string
	keepStop   bool
	compress   bool
	logLevel   string

	cfg     *config.Config
	metrics *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "textvec",
		Short: "Turn labeled text into sparse n-gram count vectors",
		Long: `textvec normalizes labeled text, builds a vocabulary of frequent unigrams
and bigrams, and encodes every record as a sparse vector of n-gram counts.

Stages:
  normalize  - label,text            -> label,stemmed tokens
  count      - normalized file       -> ngram,count vocabulary
  vectorize  - normalized+vocabulary -> label,indices,counts
  run        - all three in one pass, then every configured sink`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to YAML config file")
	flags.StringVar(&a.outputDir, "output-dir", "", "directory for stage files (default: next to the input)")
	flags.IntVar(&a.minSupport, "min-support", vocabulary.DefaultMinSupport, "minimum corpus count for a vocabulary n-gram")
	flags.IntVar(&a.maxOrder, "max-order", vocabulary.DefaultMaxOrder, "largest n-gram order, 1 or 2")
	flags.StringVar(&a.stemmer, "stemmer", "snowball", "stemmer: snowball or suffix")
	flags.StringVar(&a.language, "language", "english", "stemming and stopword language")
	flags.BoolVar(&a.keepStop, "keep-stopwords", false, "stem stopwords instead of dropping them")
	flags.BoolVar(&a.compress, "compress", false, "gzip stage files")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newRunCmd(a),
		newNormalizeCmd(a),
		newCountCmd(a),
		newVectorizeCmd(a),
		newInspectCmd(),
	)
	return root
}

// load reads the config file and lays explicitly set flags over it.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = a.outputDir
	}
	if flags.Changed("min-support") {
		cfg.Pipeline.MinSupport = a.minSupport
	}
	if flags.Changed("max-order") {
		cfg.Pipeline.MaxNGramOrder = a.maxOrder
	}
	if flags.Changed("stemmer") {
		cfg.Normalizer.Stemmer = a.stemmer
	}
	if flags.Changed("language") {
		cfg.Normalizer.Language = a.language
	}
	if flags.Changed("keep-stopwords") {
		cfg.Normalizer.KeepStopwords = a.keepStop
	}
	if flags.Changed("compress") {
		cfg.Output.Compress = a.compress
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	a.cfg = cfg
	a.metrics = metrics.New(nil)
	return nil
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	nc := a.cfg.Normalizer
	analyzer, err := normalizer.NewAnalyzer(nc.Language, nc.Stemmer, nc.StemStopwords)
	if err != nil {
		return nil, err
	}
	var opts []normalizer.Option
	if nc.KeepStopwords {
		opts = append(opts, normalizer.KeepStopwords())
	}
	return pipeline.New(normalizer.New(analyzer, opts...), vocabulary.Options{
		MinSupport: a.cfg.Pipeline.MinSupport,
		MaxOrder:   a.cfg.Pipeline.MaxNGramOrder,
	}, a.metrics)
}

func (a *app) paths(input string) pipeline.Paths {
	return pipeline.PathsFor(input, a.cfg.Output.Dir, a.cfg.Output.Compress)
}
