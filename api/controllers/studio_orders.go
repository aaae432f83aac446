package controllers

import (
	"net/http"
	"strings"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/api/validators"
	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/internal/payments"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/pagination"
)

type orderListResponse struct {
	Orders     []orderPayload `json:"orders"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

type shipOrderRequest struct {
	TrackingNumber *string `json:"tracking_number,omitempty" validate:"omitempty,max=100"`
}

type refundOrderRequest struct {
	AmountCents *int64 `json:"amount_cents,omitempty"`
}

// ListStudioOrders returns a cursor-paginated page of orders with optional
// album and status filters.
func ListStudioOrders(svc orders.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderListResponse{
			Orders:     newOrderPayloads(list.Orders, resolver),
			NextCursor: list.NextCursor,
		})
	}
}

// StudioOrderDetail returns the full order record.
func StudioOrderDetail(svc orders.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parsePathUUID(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Detail(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderPayload(order, resolver))
	}
}

// ShipStudioOrder marks an ordered order shipped, optionally recording the
// tracking number.
func ShipStudioOrder(svc orders.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parsePathUUID(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload shipOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.MarkShipped(r.Context(), orderID, payload.TrackingNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderPayload(order, resolver))
	}
}

// RefundStudioOrder issues a full or partial refund through the payment
// gateway. Omitting amount_cents refunds the remaining captured amount.
func RefundStudioOrder(svc payments.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := parsePathUUID(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload refundOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ManualRefund(r.Context(), orderID, payload.AmountCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderPayload(order, resolver))
	}
}

func buildOrderFilters(r *http.Request) (orders.ListFilters, error) {
	var filters orders.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("album_id")); raw != "" {
		albumID, err := parseOptionalUUID(&raw, "album_id")
		if err != nil {
			return filters, err
		}
		filters.AlbumID = albumID
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filters.Status = &status
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status")
		}
		filters.PaymentStatus = &status
	}

	return filters, nil
}
