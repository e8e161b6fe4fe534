package domain

import "time"

// EventType names a domain event.
type EventType string

const (
	EventUserRegistered     EventType = "user.registered"
	EventUserLoggedIn       EventType = "user.logged_in"
	EventUserUpdated        EventType = "user.updated"
	EventUserRoleChanged    EventType = "user.role_changed"
	EventCategoryCreated    EventType = "category.created"
	EventProductCreated     EventType = "product.created"
	EventProductUpdated     EventType = "product.updated"
	EventProductDeleted     EventType = "product.deleted"
	EventCartItemAdded      EventType = "cart.item_added"
	EventCartItemUpdated    EventType = "cart.item_updated"
	EventCartItemRemoved    EventType = "cart.item_removed"
	EventOrderPlaced        EventType = "order.placed"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// Event records a completed state change. AggregateID keys ordering: events
// with the same AggregateID are delivered to sinks in publish order.
type Event struct {
	Type        EventType      `json:"type" bson:"type"`
	AggregateID string         `json:"aggregateId" bson:"aggregate_id"`
	ActorID     uint           `json:"actorId,omitempty" bson:"actor_id,omitempty"`
	Payload     map[string]any `json:"payload,omitempty" bson:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt" bson:"occurred_at"`
}
