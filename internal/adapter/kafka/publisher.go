// Package kafka publishes executed search outcomes to a Kafka topic for
// downstream analytics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/facility-finder/internal/config"
	"github.com/couchcryptid/facility-finder/internal/domain"
)

// SearchEvent is the wire shape of one published search outcome.
type SearchEvent struct {
	Query       domain.SearchQuery   `json:"query"`
	Failure     domain.FailureReason `json:"failure,omitempty"`
	ResultCount int                  `json:"resultCount"`
	ExecutedAt  time.Time            `json:"executedAt"`
}

// Publisher produces search events to the sink topic.
// It implements domain.OutcomePublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishOutcome serializes and publishes one search outcome.
func (p *Publisher) PublishOutcome(ctx context.Context, outcome domain.SearchOutcome) error {
	msg, err := serializeToMessage(outcome)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a SearchOutcome into a Kafka message keyed by
// category so outcomes for one category land on one partition.
func serializeToMessage(outcome domain.SearchOutcome) (kafkago.Message, error) {
	event := SearchEvent{
		Query:       outcome.Query,
		Failure:     outcome.Failure,
		ResultCount: len(outcome.Results),
		ExecutedAt:  domain.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize search event: %w", err)
	}

	status := "success"
	if !outcome.Success() {
		status = string(outcome.Failure)
	}
	return kafkago.Message{
		Key:   []byte(outcome.Query.Category),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(status)},
			{Key: "executed_at", Value: []byte(event.ExecutedAt.Format(time.RFC3339))},
		},
	}, nil
}
