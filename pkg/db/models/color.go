package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/pkg/enums"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

// Color is a swatch offered for a material. Solid colors carry a hex value,
// texture colors carry an asset plus the crop region applied to it. The
// region is stored as a typed jsonb value and re-serialized from the typed
// form on every write.
type Color struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MaterialID    uuid.UUID            `gorm:"column:material_id;type:uuid;not null"`
	Name          string               `gorm:"column:name;not null"`
	Kind          enums.ColorKind      `gorm:"column:kind;type:text;not null;default:'solid'"`
	ColorValue    *string              `gorm:"column:color_value"`
	TextureAsset  *string              `gorm:"column:texture_asset"`
	TextureRegion *types.TextureRegion `gorm:"column:texture_region;type:jsonb;serializer:json"`
	PreviewAsset  *string              `gorm:"column:preview_asset"`
	Position      int                  `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
