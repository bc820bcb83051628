// Package notify publishes appended log rows to Kafka so downstream systems
// can follow new transactions without polling the worksheets.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"

	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// Message is the JSON value of every published record.
type Message struct {
	ID         string    `json:"id"`
	Worksheet  string    `json:"worksheet"`
	Header     []string  `json:"header"`
	Values     []string  `json:"values"`
	Operator   string    `json:"operator"`
	RequestID  string    `json:"request_id,omitempty"`
	AppendedAt time.Time `json:"appended_at"`
}

// Kafka publishes one message per appended row, keyed by worksheet title.
// Publishing is best effort: a failure is logged and never undoes or fails
// the append that triggered it.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

// NewConfig returns the producer configuration used by NewKafka.
func NewConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "fuel-command-center"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

// NewKafka connects a synchronous producer to brokers.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaWithProducer(producer, topic), nil
}

// NewKafkaWithProducer wraps an existing producer.
func NewKafkaWithProducer(p sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{producer: p, topic: topic}
}

// Appended implements fuel.Notifier.
func (k *Kafka) Appended(ctx context.Context, ws store.Worksheet, values []string, operator string) {
	log := logging.FromContext(ctx)
	msg := Message{
		ID:         uuid.NewString(),
		Worksheet:  ws.Title,
		Header:     ws.Header,
		Values:     values,
		Operator:   operator,
		RequestID:  logging.RequestID(ctx),
		AppendedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Warn().Err(err).Msg("encode notification")
		return
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(ws.Title),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		log.Warn().Err(err).Str("topic", k.topic).Str("id", msg.ID).Msg("publish notification failed")
		return
	}
	log.Debug().
		Str("topic", k.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("id", msg.ID).
		Msg("notification published")
}

// Close flushes and closes the producer.
func (k *Kafka) Close() error {
	return k.producer.Close()
}
