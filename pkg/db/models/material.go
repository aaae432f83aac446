package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/lumenpress/albumforge-backend/pkg/db/types"
)

// Material is a cover material offered across all albums. RestrictedSizes
// limits which sizes the material can be ordered in; empty means unrestricted.
type Material struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string            `gorm:"column:name;not null"`
	Upcharge        decimal.Decimal   `gorm:"column:upcharge;type:numeric(10,2);not null;default:0"`
	AllowEngraving  bool              `gorm:"column:allow_engraving;not null;default:false"`
	RestrictedSizes dbtypes.UUIDArray `gorm:"column:restricted_sizes;type:uuid[]"`
	Colors          []Color           `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
