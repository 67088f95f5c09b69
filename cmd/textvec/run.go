package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/csvio"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/redis"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <input.csv>",
		Short: "Normalize, count and vectorize, then deliver to every sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}
}

func (a *app) run(cmd *cobra.Command, input string) error {
	ctx := cmd.Context()
	paths := a.paths(input)

	sinks, err := buildSinks(a.cfg, paths, a.metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			slog.Warn("closing sinks", "error", err)
		}
	}()

	checker := health.NewChecker()
	sinks.RegisterChecks(checker)
	if a.cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(a.cfg.Metrics.Port, a.metrics, map[string]http.Handler{
			"/healthz": checker.ReadyHandler(),
		})
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(sctx)
		}()
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = checker.Preflight(pctx)
	cancel()
	if err != nil {
		return err
	}

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	records, err := csvio.ReadRecords(ctx, input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	res, err := p.Run(ctx, records)
	if err != nil {
		return err
	}
	if a.cfg.Tracing.Enabled {
		res.Trace.Log(slog.Default())
	}
	if err := sinks.Write(ctx, res); err != nil {
		return err
	}
	if a.cfg.HasSink("csv") {
		fmt.Fprintln(cmd.OutOrStdout(), paths.Vectorized)
	}
	return nil
}

// buildSinks opens every configured sink. Network clients connect lazily,
// so nothing is dialed before preflight.
func buildSinks(cfg *config.Config, paths pipeline.Paths, m *metrics.Metrics) (*sink.Multi, error) {
	var sinks []sink.Sink
	for _, name := range cfg.Sinks {
		switch name {
		case "csv":
			sinks = append(sinks, sink.NewCSV(paths, cfg.Output.KeepIntermediate))
		case "kafka":
			sinks = append(sinks, sink.NewKafka(kafka.NewProducer(cfg.Kafka), cfg.Kafka.BatchSize))
		case "postgres":
			db, err := postgres.New(cfg.Postgres)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink.NewPostgres(db))
		case "redis":
			client := redis.NewClient(cfg.Redis)
			sinks = append(sinks, sink.NewRedis(client, cfg.Redis.KeyPrefix, cfg.Redis.VectorTTL))
		default:
			return nil, fmt.Errorf("unknown sink %q", name)
		}
	}
	return sink.NewMulti(m, sinks...), nil
}
