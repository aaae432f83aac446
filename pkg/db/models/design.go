package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Design is one album layout within a client album. Position is the stable
// ordinal clients and orders reference; it is never renumbered once assigned.
type Design struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientAlbumID    uuid.UUID       `gorm:"column:client_album_id;type:uuid;not null;uniqueIndex:idx_designs_album_position"`
	Position         int             `gorm:"column:position;not null;uniqueIndex:idx_designs_album_position"`
	Name             string          `gorm:"column:name;not null"`
	BasePrice        decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`
	FreeAlbumCredits int             `gorm:"column:free_album_credits;not null;default:0"`
	DollarCredit     decimal.Decimal `gorm:"column:dollar_credit;type:numeric(10,2);not null;default:0"`
	CoverAsset       *string         `gorm:"column:cover_asset"`
	ProofAsset       *string         `gorm:"column:proof_asset"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
