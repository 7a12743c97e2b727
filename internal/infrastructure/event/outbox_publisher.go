package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// OutboxPublisher is an EventPublisher that stores events as outbox entries.
// Bound to a transactional repository it makes the events part of that transaction.
type OutboxPublisher struct {
	serializer *EventSerializer
	repo       shared.OutboxRepository
	maxRetries int
}

// NewOutboxPublisher creates a publisher writing to repo. maxRetries <= 0 keeps the entry default.
func NewOutboxPublisher(serializer *EventSerializer, repo shared.OutboxRepository, maxRetries int) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer, repo: repo, maxRetries: maxRetries}
}

// Publish serializes events and saves them as pending entries
func (p *OutboxPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(event, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}
	return p.repo.Save(ctx, entries...)
}

var _ shared.EventPublisher = (*OutboxPublisher)(nil)
