//go:build integration

// Package integration runs the network sinks against real PostgreSQL, Redis
// and Kafka instances. Each test skips when its service is unreachable.
//
// Run with:
//
//	go test -v -tags=integration ./test/integration/...
package integration

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/normalizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/redis"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func pingCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "textvec_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "textvec"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	})
	require.NoError(t, err)
	if err := db.Ping(pingCtx(t)); err != nil {
		db.Close()
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	return db
}

func skipIfNoRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(config.RedisConfig{
		Addr:     envOrDefault("TEST_REDIS_ADDR", "localhost:6379"),
		PoolSize: 4,
	})
	if err := client.Ping(pingCtx(t)); err != nil {
		client.Close()
		t.Skipf("skipping integration test: redis unavailable: %v", err)
	}
	return client
}

func skipIfNoKafka(t *testing.T) *kafka.Producer {
	t.Helper()
	producer := kafka.NewProducer(config.KafkaConfig{
		Brokers:     strings.Split(envOrDefault("TEST_KAFKA_BROKERS", "localhost:9092"), ","),
		VectorTopic: envOrDefault("TEST_KAFKA_TOPIC", "feature-vectors-test"),
		BatchSize:   10,
	})
	if err := producer.Ping(pingCtx(t)); err != nil {
		producer.Close()
		t.Skipf("skipping integration test: kafka unavailable: %v", err)
	}
	return producer
}

type identity struct{}

func (identity) IsStopword(string) bool   { return false }
func (identity) Stem(word string) string { return word }

func runCorpus(t *testing.T) *pipeline.Result {
	t.Helper()
	p, err := pipeline.New(normalizer.New(identity{}), vocabulary.DefaultOptions(), nil)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), []record.Record{
		{Label: "a", Text: "found bargain found bargain"},
		{Label: "b", Text: "found bargain again"},
		{Label: "c", Text: "nothing in common"},
	})
	require.NoError(t, err)
	return res
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPostgresSink(t *testing.T) {
	db := skipIfNoPostgres(t)
	res := runCorpus(t)
	s := sink.NewPostgres(db)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, res))
	t.Cleanup(func() {
		db.DB.Exec(`DELETE FROM vectorizer_runs WHERE run_id = $1`, res.RunID)
	})

	var size int
	require.NoError(t, db.DB.QueryRowContext(ctx,
		`SELECT vocabulary_size FROM vectorizer_runs WHERE run_id = $1`, res.RunID).Scan(&size))
	assert.Equal(t, res.Vocabulary.Len(), size)

	var vectors int
	require.NoError(t, db.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM feature_vectors WHERE run_id = $1`, res.RunID).Scan(&vectors))
	assert.Equal(t, 3, vectors)

	var ngram string
	require.NoError(t, db.DB.QueryRowContext(ctx,
		`SELECT ngram FROM vocabulary_entries WHERE run_id = $1 AND idx = 0`, res.RunID).Scan(&ngram))
	assert.Equal(t, res.Vocabulary.Entries()[0].NGram.String(), ngram)

	assert.Error(t, s.Write(ctx, res), "duplicate run id rolls back")
}

func TestRedisSink(t *testing.T) {
	client := skipIfNoRedis(t)
	res := runCorpus(t)
	s := sink.NewRedis(client, "textvec_test", time.Minute)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, res))
	t.Cleanup(func() {
		client.FlushByPattern(context.Background(), sink.RunKey("textvec_test", res.RunID)+"*")
	})

	fields, err := client.HGetAll(ctx, sink.VectorKey("textvec_test", res.RunID, 0))
	require.NoError(t, err)
	assert.Equal(t, "a", fields["label"])
	assert.NotEmpty(t, fields["indices"])

	ttl, err := client.TTL(ctx, sink.VectorKey("textvec_test", res.RunID, 2))
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestKafkaSink(t *testing.T) {
	producer := skipIfNoKafka(t)
	s := sink.NewKafka(producer, 2)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	assert.NoError(t, s.Write(ctx, runCorpus(t)))
}
