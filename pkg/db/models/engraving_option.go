package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EngravingOption is a cover engraving style. CharacterLimit of zero means
// the engraved text length is unlimited.
type EngravingOption struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Upcharge       decimal.Decimal `gorm:"column:upcharge;type:numeric(10,2);not null;default:0"`
	CharacterLimit int             `gorm:"column:character_limit;not null;default:0"`
	Fonts          []string        `gorm:"column:fonts;type:jsonb;serializer:json"`
	Description    *string         `gorm:"column:description"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
