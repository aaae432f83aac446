package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size is an album trim size offered across all albums.
type Size struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	Dimensions string          `gorm:"column:dimensions;not null;default:''"`
	Upcharge   decimal.Decimal `gorm:"column:upcharge;type:numeric(10,2);not null;default:0"`
	ImageAsset *string         `gorm:"column:image_asset"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
