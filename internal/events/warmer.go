package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const fetchBackoff = time.Second

// Recalculator recomputes and re-caches the score of one number.
type Recalculator interface {
	RecalculateScore(ctx context.Context, phone string) (float64, error)
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// ScoreWarmer refreshes the cached score of every reported number after the report event
// arrives, so the next read after a report does not pay for the recount.
type ScoreWarmer struct {
	reader messageReader
	scores Recalculator
	log    zerolog.Logger
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScoreWarmer creates a consumer-group reader for cfg.Topic.
func NewScoreWarmer(cfg ConsumerConfig, scores Recalculator, log zerolog.Logger) *ScoreWarmer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})
	return newScoreWarmer(reader, scores, log)
}

func newScoreWarmer(reader messageReader, scores Recalculator, log zerolog.Logger) *ScoreWarmer {
	return &ScoreWarmer{reader: reader, scores: scores, log: log}
}

// Start runs the consume loop until ctx is cancelled or Stop is called.
func (w *ScoreWarmer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.consumeLoop(ctx)

	w.log.Info().
		Str("event", logger.EventSystemStartup).
		Msg("Score warmer started")
}

// Stop ends the loop and closes the reader.
func (w *ScoreWarmer) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	return w.reader.Close()
}

func (w *ScoreWarmer) consumeLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			w.log.Error().Err(err).Msg("Failed to fetch spam report event")
			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchBackoff):
			}
			continue
		}
		w.handle(ctx, msg)
	}
}

func (w *ScoreWarmer) handle(ctx context.Context, msg kafka.Message) {
	for _, h := range msg.Headers {
		if h.Key == "x-trace-id" {
			ctx = logger.WithTraceID(ctx, string(h.Value))
		}
	}
	l := logger.ContextLogger(ctx, w.log).With().
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Logger()

	var event domain.SpamReportedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.PhoneNumber == "" {
		// Undecodable events are committed so they cannot block the partition.
		l.Error().Err(err).Msg("Skipping malformed spam report event")
		w.commit(ctx, l, msg)
		return
	}

	score, err := w.scores.RecalculateScore(ctx, event.PhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			l.Error().Err(err).Msg("Skipping spam report event with invalid phone number")
			w.commit(ctx, l, msg)
			return
		}
		l.Error().
			Str("event", logger.EventStoreError).
			Err(err).
			Msg("Score recalculation failed (not committing)")
		return
	}

	l.Info().
		Str("event", logger.EventScoreWarmed).
		Dict("attributes", zerolog.Dict().
			Str("phone_number", event.PhoneNumber).
			Float64("spam_likelihood", score)).
		Msg("Cached score refreshed")
	w.commit(ctx, l, msg)
}

func (w *ScoreWarmer) commit(ctx context.Context, l zerolog.Logger, msg kafka.Message) {
	if err := w.reader.CommitMessages(ctx, msg); err != nil {
		l.Error().Err(err).Msg("Failed to commit spam report event")
	}
}
