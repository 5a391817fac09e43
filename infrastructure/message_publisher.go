package infrastructure

import (
	"context"
)

// MessagePublisher is where the EventForwarder sends enveloped calculator events.
// NATSClient implements it over JetStream.
type MessagePublisher interface {
	// Publish sends one encoded envelope to subject, e.g. roicalc.leads.captured
	Publish(ctx context.Context, subject string, data []byte) error
}

var _ MessagePublisher = (*NATSClient)(nil)
