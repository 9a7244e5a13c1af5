package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerPublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "trustcall.spam-reports", zerolog.Nop())
	ctx := logger.WithTraceID(context.Background(), "trace-1")

	event := domain.SpamReportedEvent{ReportID: 7, ReporterID: uuid.New(), PhoneNumber: "+919000000001"}
	require.NoError(t, p.PublishSpamReported(ctx, event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("+919000000001"), msg.Key)

	var decoded domain.SpamReportedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ReportID, decoded.ReportID)
	assert.Equal(t, event.ReporterID, decoded.ReporterID)
	assert.False(t, decoded.ReportedAt.IsZero())

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, EventTypeSpamReported, headers["event_type"])
	assert.Equal(t, "trace-1", headers["x-trace-id"])
}

func TestProducerWrapsWriteFailure(t *testing.T) {
	boom := errors.New("leader not available")
	p := newProducer(&fakeWriter{err: boom}, "t", zerolog.Nop())

	err := p.PublishSpamReported(context.Background(), domain.SpamReportedEvent{PhoneNumber: "+919000000001"})
	assert.ErrorIs(t, err, boom)
}

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	close(r.msgs)
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m, ok := <-r.msgs:
		if !ok {
			return kafka.Message{}, io.EOF
		}
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeScores struct {
	mu     sync.Mutex
	phones []string
	fail   map[string]error
}

func (f *fakeScores) RecalculateScore(_ context.Context, phone string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, phone)
	if err := f.fail[phone]; err != nil {
		return 0, err
	}
	return 50, nil
}

func eventMessage(t *testing.T, offset int64, phone string) kafka.Message {
	t.Helper()
	data, err := json.Marshal(domain.SpamReportedEvent{ReportID: offset, PhoneNumber: phone})
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Key: []byte(phone), Value: data}
}

func TestScoreWarmerRecalculatesAndCommits(t *testing.T) {
	reader := newFakeReader(
		eventMessage(t, 1, "+919000000001"),
		kafka.Message{Offset: 2, Value: []byte("{not json")},
		eventMessage(t, 3, "+919000000002"),
		eventMessage(t, 4, "bad"),
	)
	scores := &fakeScores{fail: map[string]error{
		"+919000000002": errors.New("store down"),
		"bad":           domain.NewValidationError("phone_number", "must be a normalized E.164 number"),
	}}

	w := newScoreWarmer(reader, scores, zerolog.Nop())
	w.Start(context.Background())

	require.Eventually(t, func() bool {
		scores.mu.Lock()
		defer scores.mu.Unlock()
		return len(scores.phones) == 3
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop())

	assert.Equal(t, []string{"+919000000001", "+919000000002", "bad"}, scores.phones)
	// Offset 3 failed transiently and stays uncommitted for redelivery.
	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
	assert.True(t, reader.closed)
}
