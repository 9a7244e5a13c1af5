// Package events publishes directory domain events to Kafka and consumes them to keep
// cached reputation scores warm.
package events

import (
	"context"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
)

// Event types carried in the event_type header.
const (
	EventTypeSpamReported = "spam.reported"
	SchemaVersion         = "1.0"
)

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishSpamReported(context.Context, domain.SpamReportedEvent) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
