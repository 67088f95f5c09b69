// Package sink delivers a finished pipeline result to its destinations:
// stage files on disk, a Kafka topic, PostgreSQL tables and Redis hashes.
// A sink only ever receives a complete result, after VECTORIZE has ended.
package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	apperrors "github.com/Adithya-Monish-Kumar-K/textvec/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/metrics"
)

// Sink writes a finished result somewhere.
type Sink interface {
	Name() string
	Write(ctx context.Context, res *pipeline.Result) error
	Close() error
}

// Pinger is implemented by sinks backed by a network service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Multi fans a result out to every sink concurrently. The first failure
// cancels the others.
type Multi struct {
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewMulti(m *metrics.Metrics, sinks ...Sink) *Multi {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Multi{
		sinks:   sinks,
		metrics: m,
		logger:  slog.Default().With("component", "sink"),
	}
}

// Names lists the sinks in registration order.
func (m *Multi) Names() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return names
}

// RegisterChecks adds a ping check for every sink that has one.
func (m *Multi) RegisterChecks(c *health.Checker) {
	for _, s := range m.sinks {
		if p, ok := s.(Pinger); ok {
			c.Register(s.Name(), p.Ping)
		}
	}
}

func (m *Multi) Write(ctx context.Context, res *pipeline.Result) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range m.sinks {
		g.Go(func() error {
			return m.write(gctx, s, res)
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (m *Multi) write(ctx context.Context, s Sink, res *pipeline.Result) error {
	start := time.Now()
	err := s.Write(ctx, res)
	m.metrics.SinkDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		m.metrics.SinkWrites.WithLabelValues(s.Name(), "error").Inc()
		m.logger.Error("sink write failed", "sink", s.Name(), "run_id", res.RunID, "error", err)
		if errors.Is(err, context.Canceled) {
			return err
		}
		return apperrors.Newf(apperrors.ErrSinkUnavailable, apperrors.ExitSink, "%s: %v", s.Name(), err)
	}
	m.metrics.SinkWrites.WithLabelValues(s.Name(), "ok").Inc()
	m.logger.Info("sink written",
		"sink", s.Name(),
		"run_id", res.RunID,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Close closes every sink and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
