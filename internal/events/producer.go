package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// Producer writes domain events to one topic, keyed by phone number so the reports for a
// number stay ordered within a partition.
type Producer struct {
	writer messageWriter
	topic  string
	log    zerolog.Logger
}

// NewProducer creates a Kafka producer.
func NewProducer(cfg ProducerConfig, log zerolog.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}
	return newProducer(writer, cfg.Topic, log)
}

func newProducer(writer messageWriter, topic string, log zerolog.Logger) *Producer {
	return &Producer{writer: writer, topic: topic, log: log}
}

// PublishSpamReported implements service.EventPublisher.
func (p *Producer) PublishSpamReported(ctx context.Context, event domain.SpamReportedEvent) error {
	if event.ReportedAt.IsZero() {
		event.ReportedAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", EventTypeSpamReported, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.PhoneNumber),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeSpamReported)},
			{Key: "schema_version", Value: []byte(SchemaVersion)},
		},
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "x-trace-id", Value: []byte(traceID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", EventTypeSpamReported, err)
	}

	logger.ContextLogger(ctx, p.log).Debug().
		Str("topic", p.topic).
		Dict("attributes", zerolog.Dict().
			Int64("report_id", event.ReportID).
			Str("phone_number", event.PhoneNumber)).
		Msg("Published spam report event")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
