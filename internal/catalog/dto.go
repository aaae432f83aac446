package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/pkg/enums"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

// ColorInput carries one swatch for a material write. The texture region
// arrives already parsed into its typed value; it is re-serialized from that
// value on every save, never string-appended.
type ColorInput struct {
	Name          string
	Kind          enums.ColorKind
	ColorValue    *string
	TextureAsset  *string
	TextureRegion *types.TextureRegion
	PreviewAsset  *string
}

// MaterialInput carries a material create/update.
type MaterialInput struct {
	Name            string
	Upcharge        decimal.Decimal
	AllowEngraving  bool
	RestrictedSizes []uuid.UUID
	Colors          []ColorInput
}

// SizeInput carries a size create/update.
type SizeInput struct {
	Name       string
	Dimensions string
	Upcharge   decimal.Decimal
	ImageAsset *string
}

// EngravingOptionInput carries an engraving option create/update.
// CharacterLimit zero means unlimited.
type EngravingOptionInput struct {
	Name           string
	Upcharge       decimal.Decimal
	CharacterLimit int
	Fonts          []string
	Description    *string
}
