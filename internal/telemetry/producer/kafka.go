// Package producer publishes notifications to Kafka for the Loki forwarding worker.
package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"onboardflow/internal/notify"
)

// messageWriter is the subset of *kafka.Writer used by KafkaSink.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink implements notify.Sink using segmentio/kafka-go.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

// NewKafkaSink creates a sink that writes notifications to the given topic.
// Returns nil when brokers or topic are empty. Call Close when shutting down.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaSink{writer: writer, topic: topic}
}

// Notify serializes n as JSON and writes it to the topic, keyed by user so one user's
// notifications stay ordered within a partition.
func (p *KafkaSink) Notify(ctx context.Context, n notify.Notification) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	var key []byte
	if n.UserID != "" {
		key = []byte(n.UserID)
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{Key: key, Value: payload})
}

// Close closes the Kafka writer. Safe to call on a nil sink.
func (p *KafkaSink) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
