// Package config loads and validates textvec configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// pipeline, the normalizer, the output sinks and the ambient services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/textvec/pkg/errors"
)

var validate = validator.New()

// Config is the top-level application configuration.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Output     OutputConfig     `yaml:"output"`
	Sinks      []string         `yaml:"sinks" validate:"dive,oneof=csv kafka postgres redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

// PipelineConfig controls vocabulary selection.
type PipelineConfig struct {
	MinSupport    int `yaml:"minSupport" validate:"gte=1"`
	MaxNGramOrder int `yaml:"maxNGramOrder" validate:"gte=1,lte=2"`
}

// NormalizerConfig selects the stemming and stopword capability.
type NormalizerConfig struct {
	Language string `yaml:"language" validate:"oneof=english french hungarian norwegian russian spanish swedish"`
	Stemmer  string `yaml:"stemmer" validate:"oneof=snowball suffix"`
	// KeepStopwords stems stopwords instead of dropping them.
	KeepStopwords bool `yaml:"keepStopwords"`
	// StemStopwords lets the stemmer reduce kept stopwords.
	StemStopwords bool `yaml:"stemStopwords"`
}

// OutputConfig controls where stage files are written.
type OutputConfig struct {
	// Dir overrides the directory of stage files; empty means next to the input.
	Dir              string `yaml:"dir"`
	Compress         bool   `yaml:"compress"`
	KeepIntermediate bool   `yaml:"keepIntermediate"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"gte=0,lte=65535"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	VectorTopic string   `yaml:"vectorTopic"`
	BatchSize   int      `yaml:"batchSize" validate:"gte=1"`
}

// RedisConfig holds Redis connection parameters and the TTL of stored vectors.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	PoolSize  int           `yaml:"poolSize"`
	KeyPrefix string        `yaml:"keyPrefix"`
	VectorTTL time.Duration `yaml:"vectorTTL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port" validate:"gte=0,lte=65535"`
}

// TracingConfig controls whether phase spans are logged at the end of a run.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitBadInput, "%v", err)
	}
	if c.Normalizer.Stemmer == "suffix" && c.Normalizer.Language != "english" {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitBadInput,
			"suffix stemmer only supports english, got %q", c.Normalizer.Language)
	}
	if c.Normalizer.StemStopwords && !c.Normalizer.KeepStopwords {
		return apperrors.New(apperrors.ErrInvalidConfig, apperrors.ExitBadInput,
			"stemStopwords has no effect unless keepStopwords is set")
	}
	return nil
}

// Default returns a Config that reproduces the classic behaviour: minimum
// support 3, unigrams plus bigrams, english snowball stemming, CSV output.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MinSupport:    3,
			MaxNGramOrder: 2,
		},
		Normalizer: NormalizerConfig{
			Language: "english",
			Stemmer:  "snowball",
		},
		Output: OutputConfig{
			KeepIntermediate: true,
		},
		Sinks: []string{"csv"},
		Kafka: KafkaConfig{
			Brokers:     []string{"localhost:9092"},
			VectorTopic: "feature-vectors",
			BatchSize:   100,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "textvec",
			User:            "textvec",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "textvec",
			VectorTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads TV_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TV_MIN_SUPPORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MinSupport = n
		}
	}
	if v := os.Getenv("TV_MAX_NGRAM_ORDER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MaxNGramOrder = n
		}
	}
	if v := os.Getenv("TV_LANGUAGE"); v != "" {
		cfg.Normalizer.Language = v
	}
	if v := os.Getenv("TV_STEMMER"); v != "" {
		cfg.Normalizer.Stemmer = v
	}
	if v := os.Getenv("TV_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("TV_SINKS"); v != "" {
		cfg.Sinks = strings.Split(v, ",")
	}
	if v := os.Getenv("TV_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TV_KAFKA_VECTOR_TOPIC"); v != "" {
		cfg.Kafka.VectorTopic = v
	}
	if v := os.Getenv("TV_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("TV_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("TV_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("TV_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("TV_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("TV_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TV_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TV_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TV_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TV_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}
