package controllers

import (
	"net/http"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/api/validators"
	"github.com/lumenpress/albumforge-backend/internal/checkout"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

type checkoutRequest struct {
	Name            string                 `json:"name" validate:"required,max=200"`
	Email           string                 `json:"email" validate:"required,email"`
	Phone           *string                `json:"phone,omitempty" validate:"omitempty,max=50"`
	ShippingAddress checkoutAddressRequest `json:"shipping_address" validate:"required"`
}

type checkoutAddressRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Line1      string  `json:"line1" validate:"required,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"omitempty,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
	Country    string  `json:"country" validate:"required,max=2"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type checkoutResponse struct {
	Orders          []orderPayload `json:"orders"`
	Total           string         `json:"total"`
	TotalCents      int64          `json:"total_cents"`
	PaymentIntentID *string        `json:"payment_intent_id,omitempty"`
	ClientSecret    *string        `json:"client_secret,omitempty"`
}

// Checkout converts every submitted cart item into an ordered order and,
// when card collection is on, opens the payment intent the client confirms.
func Checkout(svc checkout.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartToken, err := requireCartToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer := checkout.CustomerInput{
			Name:  payload.Name,
			Email: payload.Email,
			Phone: payload.Phone,
			ShippingAddress: types.ShippingAddress{
				Name:       payload.ShippingAddress.Name,
				Line1:      payload.ShippingAddress.Line1,
				Line2:      payload.ShippingAddress.Line2,
				City:       payload.ShippingAddress.City,
				State:      payload.ShippingAddress.State,
				PostalCode: payload.ShippingAddress.PostalCode,
				Country:    payload.ShippingAddress.Country,
				Phone:      payload.ShippingAddress.Phone,
			},
		}

		result, err := svc.Checkout(r.Context(), albumID, cartToken, customer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Orders:          newOrderPayloads(result.Orders, resolver),
			Total:           result.Total.StringFixed(2),
			TotalCents:      result.TotalCents,
			PaymentIntentID: result.PaymentIntentID,
			ClientSecret:    result.ClientSecret,
		})
	}
}
