package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/pkg/config"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
)

// ComputeInput carries the resolved prices and credit availability for one
// album configuration. Missing catalog references arrive as zero upcharges.
type ComputeInput struct {
	BasePrice              decimal.Decimal
	MaterialUpcharge       decimal.Decimal
	SizeUpcharge           decimal.Decimal
	EngravingUpcharge      decimal.Decimal
	AvailableFreeCredits   int
	AvailableDollarCredits decimal.Decimal
}

// Quote is the priced breakdown for one album configuration.
type Quote struct {
	BasePrice         decimal.Decimal
	MaterialUpcharge  decimal.Decimal
	SizeUpcharge      decimal.Decimal
	EngravingUpcharge decimal.Decimal
	Subtotal          decimal.Decimal
	CreditType        enums.CreditType
	AppliedCredit     decimal.Decimal
	Total             decimal.Decimal
}

// Compute prices one configuration. Free-album credit always wins over dollar
// credit, and only one credit kind ever applies to a single order. A free
// credit covers exactly the base price; a dollar credit is capped at the
// subtotal so the total never goes negative.
func Compute(in ComputeInput) Quote {
	subtotal := in.BasePrice.
		Add(in.MaterialUpcharge).
		Add(in.SizeUpcharge).
		Add(in.EngravingUpcharge)

	creditType := enums.CreditTypeNone
	applied := decimal.Zero
	switch {
	case in.AvailableFreeCredits > 0:
		creditType = enums.CreditTypeFreeAlbum
		applied = in.BasePrice
	case in.AvailableDollarCredits.IsPositive():
		creditType = enums.CreditTypeDollar
		applied = decimal.Min(in.AvailableDollarCredits, subtotal)
	}

	total := subtotal.Sub(applied)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		BasePrice:         in.BasePrice,
		MaterialUpcharge:  in.MaterialUpcharge,
		SizeUpcharge:      in.SizeUpcharge,
		EngravingUpcharge: in.EngravingUpcharge,
		Subtotal:          subtotal,
		CreditType:        creditType,
		AppliedCredit:     applied,
		Total:             total,
	}
}

// OrderTotal re-sums the snapshot fields stored on the order. It never joins
// back to live catalog rows, so later catalog edits cannot change it.
func OrderTotal(order *models.Order) decimal.Decimal {
	if order == nil {
		return decimal.Zero
	}
	total := order.BasePrice.
		Add(order.MaterialUpcharge).
		Add(order.SizeUpcharge).
		Add(order.EngravingUpcharge).
		Sub(order.AppliedCredit)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Cents converts a decimal amount to integer cents for the payment gateway.
// Amounts are stored with two decimal places, so the shift is exact.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FormatAmount renders an amount with the configured currency symbol.
func FormatAmount(amount decimal.Decimal, currency config.CurrencyConfig) string {
	fixed := amount.StringFixed(2)
	if currency.SymbolBefore() {
		return currency.Symbol + fixed
	}
	return fmt.Sprintf("%s %s", fixed, currency.Symbol)
}
