package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/api/validators"
	"github.com/lumenpress/albumforge-backend/internal/cart"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

type cartItemRequest struct {
	DesignPosition    int     `json:"design_position" validate:"min=1"`
	MaterialID        *string `json:"material_id,omitempty" validate:"omitempty,uuid4"`
	ColorID           *string `json:"color_id,omitempty" validate:"omitempty,uuid4"`
	SizeID            *string `json:"size_id,omitempty" validate:"omitempty,uuid4"`
	EngravingOptionID *string `json:"engraving_option_id,omitempty" validate:"omitempty,uuid4"`
	EngravingText     *string `json:"engraving_text,omitempty" validate:"omitempty,max=500"`
	EngravingFont     *string `json:"engraving_font,omitempty" validate:"omitempty,max=100"`
	ClientNotes       *string `json:"client_notes,omitempty" validate:"omitempty,max=2000"`
}

func (req cartItemRequest) toInput() (cart.ItemInput, error) {
	input := cart.ItemInput{
		DesignPosition: req.DesignPosition,
		EngravingText:  sanitizeOptional(req.EngravingText, 500),
		EngravingFont:  sanitizeOptional(req.EngravingFont, 100),
		ClientNotes:    sanitizeOptional(req.ClientNotes, 2000),
	}

	var err error
	if input.MaterialID, err = parseOptionalUUID(req.MaterialID, "material_id"); err != nil {
		return input, err
	}
	if input.ColorID, err = parseOptionalUUID(req.ColorID, "color_id"); err != nil {
		return input, err
	}
	if input.SizeID, err = parseOptionalUUID(req.SizeID, "size_id"); err != nil {
		return input, err
	}
	if input.EngravingOptionID, err = parseOptionalUUID(req.EngravingOptionID, "engraving_option_id"); err != nil {
		return input, err
	}
	return input, nil
}

// AddCartItem submits one configured design to the album's cart.
func AddCartItem(svc cart.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
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

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Add(r.Context(), albumID, cartToken, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderPayload(order, resolver))
	}
}

// UpdateCartItem reconfigures a submitted cart item.
func UpdateCartItem(svc cart.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
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
		orderID, err := parsePathUUID(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), albumID, cartToken, orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderPayload(order, resolver))
	}
}

// RemoveCartItem deletes a submitted cart item, returning its credit to the
// pool.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
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
		orderID, err := parsePathUUID(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), albumID, cartToken, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// CartSummary returns the current cart contents with re-derived totals.
func CartSummary(svc cart.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
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

		summary, err := svc.Summary(r.Context(), albumID, cartToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartSummaryPayload(summary, resolver))
	}
}

// QuoteCartItem prices a configuration without persisting anything. Shoppers
// see the running total while they toggle options.
func QuoteCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), albumID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuotePayload(quote))
	}
}

func requireCartToken(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "X-Cart-Token header required")
	}
	return token, nil
}

func parseAlbumID(r *http.Request) (uuid.UUID, error) {
	return parsePathUUID(r, "albumId", "album id")
}

func parsePathUUID(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return parsed, nil
}

func sanitizeOptional(raw *string, maxLen int) *string {
	if raw == nil {
		return nil
	}
	cleaned := validators.SanitizeString(*raw, maxLen)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &parsed, nil
}
