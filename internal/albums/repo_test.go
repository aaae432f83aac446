package albums

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
)

func setupAlbumsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	albums := `
CREATE TABLE IF NOT EXISTS client_albums (
  id TEXT PRIMARY KEY,
  client_name TEXT NOT NULL,
  client_email TEXT,
  client_phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	designs := `
CREATE TABLE IF NOT EXISTS designs (
  id TEXT PRIMARY KEY,
  client_album_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  base_price TEXT NOT NULL,
  free_album_credits INTEGER NOT NULL DEFAULT 0,
  dollar_credit TEXT NOT NULL DEFAULT '0',
  cover_asset TEXT,
  proof_asset TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (client_album_id, position)
);`
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

	for _, stmt := range []string{albums, designs, orders} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedAlbum(t *testing.T, db *gorm.DB, name string) *models.ClientAlbum {
	t.Helper()
	album := &models.ClientAlbum{ID: uuid.New(), ClientName: name}
	require.NoError(t, NewRepository(db).CreateAlbum(context.Background(), album))
	return album
}

func TestFindAlbumReturnsNilNilWhenAbsent(t *testing.T) {
	db := setupAlbumsTestDB(t)
	repo := NewRepository(db)

	album, err := repo.FindAlbum(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, album)
}

func TestNextDesignPositionSkipsGaps(t *testing.T) {
	db := setupAlbumsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	album := seedAlbum(t, db, "Rivera Wedding")

	next, err := repo.NextDesignPosition(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	for _, pos := range []int{1, 2, 3} {
		require.NoError(t, repo.CreateDesign(ctx, &models.Design{
			ID:            uuid.New(),
			ClientAlbumID: album.ID,
			Position:      pos,
			Name:          "Layout",
			BasePrice:     decimal.RequireFromString("100"),
		}))
	}
	require.NoError(t, repo.DeleteDesign(ctx, album.ID, 2))

	// Deleted ordinals are never reused.
	next, err = repo.NextDesignPosition(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestFindAlbumPreloadsDesignsInPositionOrder(t *testing.T) {
	db := setupAlbumsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	album := seedAlbum(t, db, "Chen Family")
	for _, pos := range []int{3, 1, 2} {
		require.NoError(t, repo.CreateDesign(ctx, &models.Design{
			ID:            uuid.New(),
			ClientAlbumID: album.ID,
			Position:      pos,
			Name:          "Layout",
			BasePrice:     decimal.RequireFromString("100"),
		}))
	}

	found, err := repo.FindAlbum(ctx, album.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Designs, 3)
	assert.Equal(t, 1, found.Designs[0].Position)
	assert.Equal(t, 3, found.Designs[2].Position)
}

func TestFindDesignForUpdate(t *testing.T) {
	db := setupAlbumsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	album := seedAlbum(t, db, "Rivera Wedding")
	require.NoError(t, repo.CreateDesign(ctx, &models.Design{
		ID:            uuid.New(),
		ClientAlbumID: album.ID,
		Position:      1,
		Name:          "Layout",
		BasePrice:     decimal.RequireFromString("100"),
	}))

	design, err := repo.FindDesignForUpdate(ctx, album.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, design)
	assert.Equal(t, 1, design.Position)

	absent, err := repo.FindDesignForUpdate(ctx, album.ID, 9)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestDesignLockClauseByDialect(t *testing.T) {
	// Postgres gets FOR UPDATE; sqlite has no row locks and must not see the
	// clause at all.
	pg := designLockClause(postgres.Dialector{})
	require.Len(t, pg, 1)
	locking, ok := pg[0].(clause.Locking)
	require.True(t, ok)
	assert.Equal(t, "UPDATE", locking.Strength)

	assert.Empty(t, designLockClause(sqlite.Dialector{}))
	assert.Empty(t, designLockClause(nil))
}

func TestCountOrdersForDesign(t *testing.T) {
	db := setupAlbumsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	album := seedAlbum(t, db, "Okafor Portraits")
	order := &models.Order{
		ID:             uuid.New(),
		ClientAlbumID:  album.ID,
		CartToken:      "tok-1",
		Status:         enums.OrderStatusSubmitted,
		DesignPosition: 2,
		DesignName:     "Layout",
		BasePrice:      decimal.RequireFromString("100"),
		Total:          decimal.RequireFromString("100"),
		SubmittedAt:    time.Now(),
	}
	require.NoError(t, db.Create(order).Error)

	count, err := repo.CountOrdersForDesign(ctx, album.ID, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountOrdersForDesign(ctx, album.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}
