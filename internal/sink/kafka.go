package sink

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/textvec/pkg/kafka"
)

// VectorEvent is the JSON payload published for each vectorized record.
type VectorEvent struct {
	RunID          string `json:"run_id"`
	Seq            int    `json:"seq"`
	Label          string `json:"label"`
	Indices        []int  `json:"indices"`
	Counts         []int  `json:"counts"`
	VocabularySize int    `json:"vocabulary_size"`
}

// Publisher is the part of the Kafka producer the sink needs.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event, size int) error
	Close() error
}

// Kafka publishes one VectorEvent per record, keyed by label.
type Kafka struct {
	producer  Publisher
	batchSize int
}

func NewKafka(producer Publisher, batchSize int) *Kafka {
	return &Kafka{producer: producer, batchSize: batchSize}
}

func (k *Kafka) Name() string { return "kafka" }

// Events converts a result into the events Write publishes, in record order.
func Events(res *pipeline.Result) []kafka.Event {
	events := make([]kafka.Event, 0, len(res.Vectors))
	for _, v := range res.Vectors {
		indices, counts := v.Vector.Indices, v.Vector.Counts
		if indices == nil {
			indices, counts = []int{}, []int{}
		}
		events = append(events, kafka.Event{
			Key: v.Label,
			Value: VectorEvent{
				RunID:          res.RunID,
				Seq:            v.Seq,
				Label:          v.Label,
				Indices:        indices,
				Counts:         counts,
				VocabularySize: res.Vocabulary.Len(),
			},
		})
	}
	return events
}

func (k *Kafka) Write(ctx context.Context, res *pipeline.Result) error {
	if err := k.producer.PublishBatch(ctx, Events(res), k.batchSize); err != nil {
		return fmt.Errorf("publishing %d vector events: %w", len(res.Vectors), err)
	}
	return nil
}

// Ping checks the brokers when the publisher supports it.
func (k *Kafka) Ping(ctx context.Context) error {
	p, ok := k.producer.(Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

func (k *Kafka) Close() error { return k.producer.Close() }
