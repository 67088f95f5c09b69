package sink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/csvio"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/redis"
)

// HashWriter is the part of the Redis client the sink needs.
type HashWriter interface {
	HSetAll(ctx context.Context, hashes []redis.Hash, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Redis stores a summary hash per run and one hash per vector, all expiring
// after ttl.
type Redis struct {
	client HashWriter
	prefix string
	ttl    time.Duration
}

func NewRedis(client HashWriter, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Ping(ctx context.Context) error { return r.client.Ping(ctx) }

// RunKey is the key of the run summary hash.
func RunKey(prefix, runID string) string {
	return prefix + ":" + runID
}

// VectorKey is the key of the hash holding record seq of a run.
func VectorKey(prefix, runID string, seq int) string {
	return RunKey(prefix, runID) + ":vector:" + strconv.Itoa(seq)
}

// Hashes converts a result into the hashes Write stores.
func (r *Redis) Hashes(res *pipeline.Result) []redis.Hash {
	hashes := make([]redis.Hash, 0, len(res.Vectors)+1)
	hashes = append(hashes, redis.Hash{
		Key: RunKey(r.prefix, res.RunID),
		Fields: map[string]any{
			"started_at":      res.StartedAt.Format(time.RFC3339),
			"records":         res.Stats.Records,
			"vocabulary_size": res.Vocabulary.Len(),
			"min_support":     res.Options.MinSupport,
		},
	})
	for _, v := range res.Vectors {
		hashes = append(hashes, redis.Hash{
			Key: VectorKey(r.prefix, res.RunID, v.Seq),
			Fields: map[string]any{
				"label":   v.Label,
				"indices": csvio.JoinInts(v.Vector.Indices),
				"counts":  csvio.JoinInts(v.Vector.Counts),
			},
		})
	}
	return hashes
}

func (r *Redis) Write(ctx context.Context, res *pipeline.Result) error {
	if err := r.client.HSetAll(ctx, r.Hashes(res), r.ttl); err != nil {
		return fmt.Errorf("storing run %s: %w", res.RunID, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
