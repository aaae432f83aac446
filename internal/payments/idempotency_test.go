package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventStore struct {
	keys map[string]bool
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{keys: map[string]bool{}}
}

func (f *fakeEventStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeEventStore) WebhookEventKey(provider, eventID string) string {
	return "af:webhook:" + provider + ":" + eventID
}

func (f *fakeEventStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
	}
	return nil
}

func TestWebhookGuardMarksFirstDelivery(t *testing.T) {
	store := newFakeEventStore()
	guard, err := NewWebhookGuard(store, time.Hour, "stripe")
	require.NoError(t, err)
	ctx := context.Background()

	seen, err := guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestWebhookGuardDeleteAllowsRetry(t *testing.T) {
	store := newFakeEventStore()
	guard, err := NewWebhookGuard(store, time.Hour, "stripe")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	require.NoError(t, guard.Delete(ctx, "evt_1"))

	seen, err := guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestWebhookGuardRequiresEventID(t *testing.T) {
	guard, err := NewWebhookGuard(newFakeEventStore(), time.Hour, "stripe")
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "")
	require.Error(t, err)
}

func TestNewWebhookGuardValidation(t *testing.T) {
	_, err := NewWebhookGuard(nil, time.Hour, "stripe")
	require.Error(t, err)

	_, err = NewWebhookGuard(newFakeEventStore(), time.Hour, "")
	require.Error(t, err)
}
