package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/internal/cart"
	"github.com/lumenpress/albumforge-backend/internal/pricing"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

type orderPayload struct {
	ID             uuid.UUID `json:"id"`
	ClientAlbumID  uuid.UUID `json:"client_album_id"`
	Status         string    `json:"status"`
	DesignPosition int       `json:"design_position"`
	DesignName     string    `json:"design_name"`
	CoverURL       string    `json:"cover_url,omitempty"`

	BasePrice         string `json:"base_price"`
	MaterialUpcharge  string `json:"material_upcharge"`
	SizeUpcharge      string `json:"size_upcharge"`
	EngravingUpcharge string `json:"engraving_upcharge"`
	CreditType        string `json:"credit_type"`
	AppliedCredit     string `json:"applied_credit"`
	Total             string `json:"total"`

	MaterialID        *uuid.UUID `json:"material_id,omitempty"`
	MaterialName      *string    `json:"material_name,omitempty"`
	ColorID           *uuid.UUID `json:"color_id,omitempty"`
	ColorName         *string    `json:"color_name,omitempty"`
	SizeID            *uuid.UUID `json:"size_id,omitempty"`
	SizeName          *string    `json:"size_name,omitempty"`
	EngravingOptionID *uuid.UUID `json:"engraving_option_id,omitempty"`
	EngravingName     *string    `json:"engraving_name,omitempty"`
	EngravingText     *string    `json:"engraving_text,omitempty"`
	EngravingFont     *string    `json:"engraving_font,omitempty"`
	ClientNotes       *string    `json:"client_notes,omitempty"`

	CustomerName    *string                `json:"customer_name,omitempty"`
	CustomerEmail   *string                `json:"customer_email,omitempty"`
	CustomerPhone   *string                `json:"customer_phone,omitempty"`
	ShippingAddress *types.ShippingAddress `json:"shipping_address,omitempty"`
	TrackingNumber  *string                `json:"tracking_number,omitempty"`

	PaymentStatus      string  `json:"payment_status"`
	PaymentIntentID    *string `json:"payment_intent_id,omitempty"`
	PaymentAmountCents int64   `json:"payment_amount_cents"`
	RefundAmountCents  int64   `json:"refund_amount_cents"`
	PaymentError       *string `json:"payment_error,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	OrderedAt   *time.Time `json:"ordered_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`
}

func newOrderPayload(order *models.Order, resolver *assets.Resolver) orderPayload {
	payload := orderPayload{
		ID:             order.ID,
		ClientAlbumID:  order.ClientAlbumID,
		Status:         string(order.Status),
		DesignPosition: order.DesignPosition,
		DesignName:     order.DesignName,

		BasePrice:         order.BasePrice.StringFixed(2),
		MaterialUpcharge:  order.MaterialUpcharge.StringFixed(2),
		SizeUpcharge:      order.SizeUpcharge.StringFixed(2),
		EngravingUpcharge: order.EngravingUpcharge.StringFixed(2),
		CreditType:        string(order.CreditType),
		AppliedCredit:     order.AppliedCredit.StringFixed(2),
		Total:             order.Total.StringFixed(2),

		MaterialID:        order.MaterialID,
		MaterialName:      order.MaterialName,
		ColorID:           order.ColorID,
		ColorName:         order.ColorName,
		SizeID:            order.SizeID,
		SizeName:          order.SizeName,
		EngravingOptionID: order.EngravingOptionID,
		EngravingName:     order.EngravingName,
		EngravingText:     order.EngravingText,
		EngravingFont:     order.EngravingFont,
		ClientNotes:       order.ClientNotes,

		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		TrackingNumber:  order.TrackingNumber,

		PaymentStatus:      string(order.PaymentStatus),
		PaymentIntentID:    order.PaymentIntentID,
		PaymentAmountCents: order.PaymentAmountCents,
		RefundAmountCents:  order.RefundAmountCents,
		PaymentError:       order.PaymentError,

		SubmittedAt: order.SubmittedAt,
		OrderedAt:   order.OrderedAt,
		ShippedAt:   order.ShippedAt,
		PaidAt:      order.PaidAt,
		RefundedAt:  order.RefundedAt,
	}
	if resolver != nil {
		payload.CoverURL = resolver.ResolveOptional(order.CoverAsset, "")
	}
	return payload
}

func newOrderPayloads(orders []models.Order, resolver *assets.Resolver) []orderPayload {
	out := make([]orderPayload, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderPayload(&orders[i], resolver))
	}
	return out
}

type quotePayload struct {
	BasePrice         string `json:"base_price"`
	MaterialUpcharge  string `json:"material_upcharge"`
	SizeUpcharge      string `json:"size_upcharge"`
	EngravingUpcharge string `json:"engraving_upcharge"`
	Subtotal          string `json:"subtotal"`
	CreditType        string `json:"credit_type"`
	AppliedCredit     string `json:"applied_credit"`
	Total             string `json:"total"`
}

func newQuotePayload(quote *pricing.Quote) quotePayload {
	return quotePayload{
		BasePrice:         quote.BasePrice.StringFixed(2),
		MaterialUpcharge:  quote.MaterialUpcharge.StringFixed(2),
		SizeUpcharge:      quote.SizeUpcharge.StringFixed(2),
		EngravingUpcharge: quote.EngravingUpcharge.StringFixed(2),
		Subtotal:          quote.Subtotal.StringFixed(2),
		CreditType:        string(quote.CreditType),
		AppliedCredit:     quote.AppliedCredit.StringFixed(2),
		Total:             quote.Total.StringFixed(2),
	}
}

type cartSummaryItemPayload struct {
	OrderID        uuid.UUID `json:"order_id"`
	DesignPosition int       `json:"design_position"`
	DesignName     string    `json:"design_name"`
	CoverURL       string    `json:"cover_url,omitempty"`
	MaterialName   *string   `json:"material_name,omitempty"`
	ColorName      *string   `json:"color_name,omitempty"`
	SizeName       *string   `json:"size_name,omitempty"`
	EngravingName  *string   `json:"engraving_name,omitempty"`
	EngravingText  *string   `json:"engraving_text,omitempty"`
	CreditType     string    `json:"credit_type"`
	AppliedCredit  string    `json:"applied_credit"`
	Total          string    `json:"total"`
}

type cartSummaryPayload struct {
	Items []cartSummaryItemPayload `json:"items"`
	Count int                      `json:"count"`
	Total string                   `json:"total"`
}

func newCartSummaryPayload(summary *cart.Summary, resolver *assets.Resolver) cartSummaryPayload {
	items := make([]cartSummaryItemPayload, 0, len(summary.Items))
	for _, item := range summary.Items {
		entry := cartSummaryItemPayload{
			OrderID:        item.OrderID,
			DesignPosition: item.DesignPosition,
			DesignName:     item.DesignName,
			MaterialName:   item.MaterialName,
			ColorName:      item.ColorName,
			SizeName:       item.SizeName,
			EngravingName:  item.EngravingName,
			EngravingText:  item.EngravingText,
			CreditType:     string(item.CreditType),
			AppliedCredit:  item.AppliedCredit.StringFixed(2),
			Total:          item.Total.StringFixed(2),
		}
		if resolver != nil {
			entry.CoverURL = resolver.ResolveOptional(item.CoverAsset, "")
		}
		items = append(items, entry)
	}
	return cartSummaryPayload{
		Items: items,
		Count: summary.Count,
		Total: summary.Total.StringFixed(2),
	}
}
