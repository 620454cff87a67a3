package producer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

const writeTimeout = 5 * time.Second

// Config is read from the environment; the producer is disabled when no
// broker is set.
type Config struct {
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC" envDefault:"ksp-telemetry"`
}

// BrokerList returns broker addresses from the comma-separated config.
func (c Config) BrokerList() []string {
	if c.Brokers == "" {
		return nil
	}
	parts := strings.Split(c.Brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes every telemetry row as a JSON record keyed by
// the session ID.
type KafkaProducer struct {
	writer  messageWriter
	topic   string
	session string
	columns []string
}

// NewKafkaProducer returns nil when brokers or topic are missing. Call
// Close when shutting down.
func NewKafkaProducer(brokers []string, topic, session string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer, topic: topic, session: session}
}

func (p *KafkaProducer) Open(ctx context.Context, columns []string) error {
	p.columns = append([]string(nil), columns...)
	return nil
}

// Write publishes the row with a short timeout so a slow broker does not
// stall the polling loop indefinitely.
func (p *KafkaProducer) Write(ctx context.Context, row telemetrics.Row) error {
	msg, err := p.message(row)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		logi.GetLogger().Error("kafka publish failed", "topic", p.topic, "error", err)
		return err
	}
	return nil
}

func (p *KafkaProducer) message(row telemetrics.Row) (kafka.Message, error) {
	payload, err := json.Marshal(telemetrics.NewRecord(p.session, p.columns, row))
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(p.session),
		Value: payload,
		Time:  row.CapturedAt,
	}, nil
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
