package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
)

// ItemInput is one album configuration as submitted by the client UI.
// Material and size are required when the item is added to or saved in the
// cart; Quote accepts partial selections so the UI can price as the client
// picks options. Color and engraving stay optional throughout.
type ItemInput struct {
	DesignPosition    int
	MaterialID        *uuid.UUID
	ColorID           *uuid.UUID
	SizeID            *uuid.UUID
	EngravingOptionID *uuid.UUID
	EngravingText     *string
	EngravingFont     *string
	ClientNotes       *string
}

// Summary is the client-facing view of one cart.
type Summary struct {
	Items []SummaryItem
	Count int
	Total decimal.Decimal
}

// SummaryItem is one priced line in the cart summary.
type SummaryItem struct {
	OrderID        uuid.UUID
	DesignPosition int
	DesignName     string
	CoverAsset     *string
	MaterialName   *string
	ColorName      *string
	SizeName       *string
	EngravingName  *string
	EngravingText  *string
	CreditType     enums.CreditType
	AppliedCredit  decimal.Decimal
	Total          decimal.Decimal
}

func buildSummary(orders []models.Order) *Summary {
	summary := &Summary{Items: make([]SummaryItem, 0, len(orders)), Count: len(orders)}
	summary.Total = decimal.Zero
	for _, order := range orders {
		summary.Items = append(summary.Items, SummaryItem{
			OrderID:        order.ID,
			DesignPosition: order.DesignPosition,
			DesignName:     order.DesignName,
			CoverAsset:     order.CoverAsset,
			MaterialName:   order.MaterialName,
			ColorName:      order.ColorName,
			SizeName:       order.SizeName,
			EngravingName:  order.EngravingName,
			EngravingText:  order.EngravingText,
			CreditType:     order.CreditType,
			AppliedCredit:  order.AppliedCredit,
			Total:          order.Total,
		})
		summary.Total = summary.Total.Add(order.Total)
	}
	return summary
}
