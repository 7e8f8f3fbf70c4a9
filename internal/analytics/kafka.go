package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaSink publishes click events to a Kafka topic, keyed by token so all
// clicks for one redirect land on the same partition.
type KafkaSink struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaSink creates a sink writing to the given topic. Brokers is a
// comma-separated list.
func NewKafkaSink(brokers, topic string, logger zerolog.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaSink{writer: writer, logger: logger}
}

func (s *KafkaSink) EmitClick(ctx context.Context, event ClickEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("token", event.Token).Msg("failed to marshal click event")
		return err
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Token),
		Value: payload,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("token", event.Token).Msg("failed to publish click event")
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
