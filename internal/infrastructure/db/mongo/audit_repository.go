package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/commerce-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository appends every dispatched domain event to an audit
// collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Type        string         `bson:"type"`
	AggregateID string         `bson:"aggregate_id"`
	ActorID     uint           `bson:"actor_id,omitempty"`
	Payload     map[string]any `bson:"payload,omitempty"`
	OccurredAt  time.Time      `bson:"occurred_at"`
	ProcessedAt time.Time      `bson:"processed_at"`
}

func newAuditDoc(e domain.Event, now time.Time) auditDoc {
	return auditDoc{
		Type:        string(e.Type),
		AggregateID: e.AggregateID,
		ActorID:     e.ActorID,
		Payload:     e.Payload,
		OccurredAt:  e.OccurredAt.UTC(),
		ProcessedAt: now.UTC(),
	}
}

func (r *AuditRepository) Name() string { return "mongo-audit" }

func (r *AuditRepository) Handle(ctx context.Context, e domain.Event) error {
	if _, err := r.coll.InsertOne(ctx, newAuditDoc(e, time.Now())); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup index used to read an aggregate's history.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "aggregate_id", Value: 1}, {Key: "occurred_at", Value: 1}},
		Options: options.Index().SetName("aggregate_occurred"),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}
