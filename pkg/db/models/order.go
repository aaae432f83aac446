package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/pkg/enums"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

// Order is one configured album line in a client's cart and, after checkout,
// the fulfillment record for it. Catalog names and prices are snapshotted at
// submission so later catalog edits cannot change what the client agreed to.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientAlbumID uuid.UUID         `gorm:"column:client_album_id;type:uuid;not null;index"`
	CartToken     string            `gorm:"column:cart_token;not null;index"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'submitted'"`

	DesignPosition int     `gorm:"column:design_position;not null"`
	DesignName     string  `gorm:"column:design_name;not null"`
	CoverAsset     *string `gorm:"column:cover_asset"`

	BasePrice         decimal.Decimal  `gorm:"column:base_price;type:numeric(10,2);not null"`
	MaterialUpcharge  decimal.Decimal  `gorm:"column:material_upcharge;type:numeric(10,2);not null;default:0"`
	SizeUpcharge      decimal.Decimal  `gorm:"column:size_upcharge;type:numeric(10,2);not null;default:0"`
	EngravingUpcharge decimal.Decimal  `gorm:"column:engraving_upcharge;type:numeric(10,2);not null;default:0"`
	CreditType        enums.CreditType `gorm:"column:credit_type;type:text;not null;default:'none'"`
	AppliedCredit     decimal.Decimal  `gorm:"column:applied_credit;type:numeric(10,2);not null;default:0"`
	Total             decimal.Decimal  `gorm:"column:total;type:numeric(10,2);not null"`

	MaterialID        *uuid.UUID `gorm:"column:material_id;type:uuid"`
	MaterialName      *string    `gorm:"column:material_name"`
	ColorID           *uuid.UUID `gorm:"column:color_id;type:uuid"`
	ColorName         *string    `gorm:"column:color_name"`
	SizeID            *uuid.UUID `gorm:"column:size_id;type:uuid"`
	SizeName          *string    `gorm:"column:size_name"`
	EngravingOptionID *uuid.UUID `gorm:"column:engraving_option_id;type:uuid"`
	EngravingName     *string    `gorm:"column:engraving_name"`
	EngravingText     *string    `gorm:"column:engraving_text"`
	EngravingFont     *string    `gorm:"column:engraving_font"`

	CustomerName    *string                `gorm:"column:customer_name"`
	CustomerEmail   *string                `gorm:"column:customer_email"`
	CustomerPhone   *string                `gorm:"column:customer_phone"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	ClientNotes     *string                `gorm:"column:client_notes"`
	TrackingNumber  *string                `gorm:"column:tracking_number"`

	PaymentStatus      enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	PaymentIntentID    *string             `gorm:"column:payment_intent_id;index"`
	ChargeID           *string             `gorm:"column:charge_id"`
	PaymentAmountCents int64               `gorm:"column:payment_amount_cents;not null;default:0"`
	RefundAmountCents  int64               `gorm:"column:refund_amount_cents;not null;default:0"`
	RefundID           *string             `gorm:"column:refund_id"`
	PaymentError       *string             `gorm:"column:payment_error"`

	SubmittedAt time.Time  `gorm:"column:submitted_at;not null"`
	OrderedAt   *time.Time `gorm:"column:ordered_at"`
	ShippedAt   *time.Time `gorm:"column:shipped_at"`
	PaidAt      *time.Time `gorm:"column:paid_at"`
	RefundedAt  *time.Time `gorm:"column:refunded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
