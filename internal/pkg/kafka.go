package pkg

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventTypeHeader = "event_type"

// EventProducer publishes social events to a single topic.
type EventProducer struct {
	writer *kafka.Writer
}

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

func NewEventProducer(cfg KafkaConfig) (*EventProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &EventProducer{writer: w}, nil
}

func (p *EventProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish writes one event synchronously. Events with the same key share a partition.
func (p *EventProducer) Publish(ctx context.Context, key, eventType string, value []byte) error {
	return p.writer.WriteMessages(ctx, eventMessage(key, eventType, value))
}

func eventMessage(key, eventType string, value []byte) kafka.Message {
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: EventTypeHeader, Value: []byte(eventType)}},
	}
}

// PartitionKey keys a user's events so they stay ordered per user.
func PartitionKey(userID uint64) string {
	return strconv.FormatUint(userID, 10)
}
