package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// EventPublisher accepts domain events for asynchronous delivery. Publish
// never blocks on downstream sinks and never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event)
}

// EventSink receives dispatched events.
type EventSink interface {
	Name() string
	Handle(ctx context.Context, event domain.Event) error
}
