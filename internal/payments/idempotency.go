package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumenpress/albumforge-backend/pkg/redis"
)

// WebhookGuard deduplicates gateway webhook deliveries by event id. The mark
// is written before handling and removed on handler failure so a redelivery
// can retry.
type WebhookGuard struct {
	store    redis.EventGuard
	ttl      time.Duration
	provider string
}

func NewWebhookGuard(store redis.EventGuard, ttl time.Duration, provider string) (*WebhookGuard, error) {
	if store == nil {
		return nil, errors.New("event guard store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if provider == "" {
		return nil, errors.New("provider is required")
	}
	return &WebhookGuard{
		store:    store,
		ttl:      ttl,
		provider: provider,
	}, nil
}

// CheckAndMark reports whether the event was already processed, marking it
// otherwise.
func (g *WebhookGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := g.store.WebhookEventKey(g.provider, eventID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set webhook event key: %w", err)
	}
	return !set, nil
}

func (g *WebhookGuard) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	key := g.store.WebhookEventKey(g.provider, eventID)
	return g.store.Del(ctx, key)
}
