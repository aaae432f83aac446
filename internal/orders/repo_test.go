package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	"github.com/lumenpress/albumforge-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  client_album_id TEXT NOT NULL,
  cart_token TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'submitted',
  design_position INTEGER NOT NULL,
  design_name TEXT NOT NULL,
  cover_asset TEXT,
  base_price TEXT NOT NULL,
  material_upcharge TEXT NOT NULL DEFAULT '0',
  size_upcharge TEXT NOT NULL DEFAULT '0',
  engraving_upcharge TEXT NOT NULL DEFAULT '0',
  credit_type TEXT NOT NULL DEFAULT 'none',
  applied_credit TEXT NOT NULL DEFAULT '0',
  total TEXT NOT NULL,
  material_id TEXT,
  material_name TEXT,
  color_id TEXT,
  color_name TEXT,
  size_id TEXT,
  size_name TEXT,
  engraving_option_id TEXT,
  engraving_name TEXT,
  engraving_text TEXT,
  engraving_font TEXT,
  customer_name TEXT,
  customer_email TEXT,
  customer_phone TEXT,
  shipping_address TEXT,
  client_notes TEXT,
  tracking_number TEXT,
  payment_status TEXT NOT NULL DEFAULT 'unpaid',
  payment_intent_id TEXT,
  charge_id TEXT,
  payment_amount_cents INTEGER NOT NULL DEFAULT 0,
  refund_amount_cents INTEGER NOT NULL DEFAULT 0,
  refund_id TEXT,
  payment_error TEXT,
  submitted_at DATETIME NOT NULL,
  ordered_at DATETIME,
  shipped_at DATETIME,
  paid_at DATETIME,
  refunded_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func newOrder(albumID uuid.UUID, token string, status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		ClientAlbumID:  albumID,
		CartToken:      token,
		Status:         status,
		DesignPosition: 1,
		DesignName:     "Layout",
		BasePrice:      decimal.RequireFromString("100"),
		Total:          decimal.RequireFromString("100"),
		SubmittedAt:    time.Now(),
	}
}

func TestFindCartScopesByAlbumTokenAndStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	albumID := uuid.New()

	mine := newOrder(albumID, "tok-a", enums.OrderStatusSubmitted)
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, newOrder(albumID, "tok-b", enums.OrderStatusSubmitted)))
	require.NoError(t, repo.Create(ctx, newOrder(albumID, "tok-a", enums.OrderStatusOrdered)))
	require.NoError(t, repo.Create(ctx, newOrder(uuid.New(), "tok-a", enums.OrderStatusSubmitted)))

	cart, err := repo.FindCart(ctx, albumID, "tok-a")
	require.NoError(t, err)
	require.Len(t, cart, 1, "other tokens, albums and statuses stay out of this cart")
	assert.Equal(t, mine.ID, cart[0].ID)
}

func TestTransitionStatusIsConditional(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(uuid.New(), "tok", enums.OrderStatusSubmitted)
	require.NoError(t, repo.Create(ctx, order))

	now := time.Now().UTC()
	applied, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusSubmitted, enums.OrderStatusOrdered, map[string]any{"ordered_at": now})
	require.NoError(t, err)
	assert.True(t, applied)

	// Second attempt loses the CAS.
	applied, err = repo.TransitionStatus(ctx, order.ID, enums.OrderStatusSubmitted, enums.OrderStatusOrdered, nil)
	require.NoError(t, err)
	assert.False(t, applied)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, enums.OrderStatusOrdered, found.Status)
	assert.NotNil(t, found.OrderedAt)
}

func TestFindByPaymentIntentAndCharge(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(uuid.New(), "tok", enums.OrderStatusOrdered)
	intentID := "pi_123"
	chargeID := "ch_456"
	order.PaymentIntentID = &intentID
	order.ChargeID = &chargeID
	require.NoError(t, repo.Create(ctx, order))

	byIntent, err := repo.FindByPaymentIntentID(ctx, "pi_123")
	require.NoError(t, err)
	require.Len(t, byIntent, 1)

	byCharge, err := repo.FindByChargeID(ctx, "ch_456")
	require.NoError(t, err)
	require.Len(t, byCharge, 1)

	none, err := repo.FindByChargeID(ctx, "ch_unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPaginatesWithCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	albumID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		order := newOrder(albumID, "tok", enums.OrderStatusOrdered)
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(order).Error)
	}

	first, err := repo.List(ctx, pagination.Params{Limit: 2}, ListFilters{AlbumID: &albumID})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	require.NotNil(t, first.NextCursor)

	second, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: *first.NextCursor}, ListFilters{AlbumID: &albumID})
	require.NoError(t, err)
	require.Len(t, second.Orders, 2)

	// Pages never overlap.
	seen := map[uuid.UUID]bool{}
	for _, o := range append(first.Orders, second.Orders...) {
		assert.False(t, seen[o.ID])
		seen[o.ID] = true
	}
}

func TestListFiltersByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	albumID := uuid.New()

	require.NoError(t, repo.Create(ctx, newOrder(albumID, "tok", enums.OrderStatusSubmitted)))
	require.NoError(t, repo.Create(ctx, newOrder(albumID, "tok", enums.OrderStatusShipped)))

	shipped := enums.OrderStatusShipped
	list, err := repo.List(ctx, pagination.Params{}, ListFilters{Status: &shipped})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, enums.OrderStatusShipped, list.Orders[0].Status)
}
