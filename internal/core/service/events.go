package service

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

func publish(ctx context.Context, p ports.EventPublisher, typ domain.EventType, aggregateID string, actorID uint, payload map[string]any) {
	if p == nil {
		return
	}
	p.Publish(ctx, domain.Event{
		Type:        typ,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	})
}

func productPayload(p *domain.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"image":       p.Image,
		"categories":  p.Categories,
	}
}
