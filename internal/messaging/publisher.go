package messaging

import (
	"context"

	"github.com/feral-file/slp-indexer/internal/domain"
)

// Publisher defines the interface for publishing ledger events to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes an applied operation to the message broker
	PublishEvent(ctx context.Context, event *domain.LedgerEvent) error
	// Close closes the connection
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher creates a publisher that drops every event
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(context.Context, *domain.LedgerEvent) error {
	return nil
}

func (noopPublisher) Close() {}
