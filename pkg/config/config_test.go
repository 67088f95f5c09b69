package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/textvec/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pipeline.MinSupport)
	assert.Equal(t, 2, cfg.Pipeline.MaxNGramOrder)
	assert.Equal(t, "snowball", cfg.Normalizer.Stemmer)
	assert.True(t, cfg.HasSink("csv"))
	assert.False(t, cfg.HasSink("kafka"))
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textvec.yaml")
	yaml := `
pipeline:
  minSupport: 5
  maxNGramOrder: 1
normalizer:
  stemmer: suffix
sinks: [csv, redis]
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("TV_MIN_SUPPORT", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.MinSupport)
	assert.Equal(t, 1, cfg.Pipeline.MaxNGramOrder)
	assert.Equal(t, "suffix", cfg.Normalizer.Stemmer)
	assert.Equal(t, "english", cfg.Normalizer.Language)
	assert.True(t, cfg.HasSink("redis"))
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min support", func(c *Config) { c.Pipeline.MinSupport = 0 }},
		{"trigrams", func(c *Config) { c.Pipeline.MaxNGramOrder = 3 }},
		{"zero order", func(c *Config) { c.Pipeline.MaxNGramOrder = 0 }},
		{"unknown stemmer", func(c *Config) { c.Normalizer.Stemmer = "lancaster" }},
		{"unknown sink", func(c *Config) { c.Sinks = []string{"csv", "s3"} }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"unknown language", func(c *Config) { c.Normalizer.Language = "klingon" }},
		{"suffix stemmer in french", func(c *Config) {
			c.Normalizer.Language = "french"
			c.Normalizer.Stemmer = "suffix"
		}},
		{"stem stopwords without keeping them", func(c *Config) { c.Normalizer.StemStopwords = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	dsn := Default().Postgres.DSN()
	assert.Equal(t, "host=localhost port=5432 user=textvec password=localdev dbname=textvec sslmode=disable", dsn)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "textvec.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Redis.VectorTTL, cfg.Redis.VectorTTL)
	assert.Equal(t, Default().Postgres.ConnMaxLifetime, cfg.Postgres.ConnMaxLifetime)
	assert.Equal(t, []string{"csv"}, cfg.Sinks)
}

func TestNormalizerStopwordOptions(t *testing.T) {
	cfg := Default()
	cfg.Normalizer.Language = "spanish"
	cfg.Normalizer.KeepStopwords = true
	cfg.Normalizer.StemStopwords = true
	assert.NoError(t, cfg.Validate())
}
