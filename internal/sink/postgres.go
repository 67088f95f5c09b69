package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/postgres"
)

// Schema creates the tables the Postgres sink writes to. Every statement is
// idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS vectorizer_runs (
	    run_id          UUID PRIMARY KEY,
	    started_at      TIMESTAMPTZ NOT NULL,
	    min_support     INTEGER NOT NULL,
	    max_ngram_order INTEGER NOT NULL,
	    records         INTEGER NOT NULL,
	    vocabulary_size INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vocabulary_entries (
	    run_id UUID NOT NULL REFERENCES vectorizer_runs (run_id) ON DELETE CASCADE,
	    idx    INTEGER NOT NULL,
	    ngram  TEXT NOT NULL,
	    count  INTEGER NOT NULL,
	    PRIMARY KEY (run_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS feature_vectors (
	    run_id  UUID NOT NULL REFERENCES vectorizer_runs (run_id) ON DELETE CASCADE,
	    seq     INTEGER NOT NULL,
	    label   TEXT NOT NULL,
	    indices INTEGER[] NOT NULL,
	    counts  INTEGER[] NOT NULL,
	    PRIMARY KEY (run_id, seq)
	)`,
}

// Postgres stores the run, its vocabulary and its vectors in one
// transaction. A failed write leaves no rows behind.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Ping(ctx context.Context) error { return p.db.Ping(ctx) }

func (p *Postgres) Write(ctx context.Context, res *pipeline.Result) error {
	if err := p.db.Exec(ctx, Schema...); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return p.db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vectorizer_runs (run_id, started_at, min_support, max_ngram_order, records, vocabulary_size)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			res.RunID, res.StartedAt, res.Options.MinSupport, res.Options.MaxOrder,
			res.Stats.Records, res.Vocabulary.Len(),
		)
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}
		if err := insertVocabulary(ctx, tx, res); err != nil {
			return err
		}
		return insertVectors(ctx, tx, res)
	})
}

func insertVocabulary(ctx context.Context, tx *sql.Tx, res *pipeline.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vocabulary_entries (run_id, idx, ngram, count) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("preparing vocabulary insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range res.Vocabulary.Entries() {
		if _, err := stmt.ExecContext(ctx, res.RunID, e.Index, e.NGram.String(), e.Count); err != nil {
			return fmt.Errorf("inserting vocabulary entry %d: %w", e.Index, err)
		}
	}
	return nil
}

func insertVectors(ctx context.Context, tx *sql.Tx, res *pipeline.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO feature_vectors (run_id, seq, label, indices, counts) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("preparing vector insert: %w", err)
	}
	defer stmt.Close()
	for _, v := range res.Vectors {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := stmt.ExecContext(ctx, res.RunID, v.Seq, v.Label,
			pq.Array(int64s(v.Vector.Indices)), pq.Array(int64s(v.Vector.Counts)))
		if err != nil {
			return fmt.Errorf("inserting vector %d: %w", v.Seq, err)
		}
	}
	return nil
}

// int64s converts for pq.Array, which has no []int case.
func int64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func (p *Postgres) Close() error { return p.db.Close() }
