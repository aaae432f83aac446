package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/api/validators"
	"github.com/lumenpress/albumforge-backend/internal/albums"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

type studioAlbumRequest struct {
	ClientName  string  `json:"client_name" validate:"required,max=200"`
	ClientEmail *string `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientPhone *string `json:"client_phone,omitempty" validate:"omitempty,max=50"`
}

type studioDesignRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	BasePrice        string  `json:"base_price" validate:"required"`
	FreeAlbumCredits int     `json:"free_album_credits" validate:"min=0"`
	DollarCredit     string  `json:"dollar_credit,omitempty"`
	CoverAsset       *string `json:"cover_asset,omitempty" validate:"omitempty,max=500"`
	ProofAsset       *string `json:"proof_asset,omitempty" validate:"omitempty,max=500"`
}

type studioDesignPayload struct {
	ID               uuid.UUID `json:"id"`
	Position         int       `json:"position"`
	Name             string    `json:"name"`
	BasePrice        string    `json:"base_price"`
	FreeAlbumCredits int       `json:"free_album_credits"`
	DollarCredit     string    `json:"dollar_credit"`
	CoverURL         string    `json:"cover_url,omitempty"`
	ProofURL         string    `json:"proof_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type studioAlbumPayload struct {
	ID          uuid.UUID             `json:"id"`
	ClientName  string                `json:"client_name"`
	ClientEmail *string               `json:"client_email,omitempty"`
	ClientPhone *string               `json:"client_phone,omitempty"`
	Designs     []studioDesignPayload `json:"designs,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func newStudioDesignPayload(design *models.Design, resolver *assets.Resolver) studioDesignPayload {
	payload := studioDesignPayload{
		ID:               design.ID,
		Position:         design.Position,
		Name:             design.Name,
		BasePrice:        design.BasePrice.StringFixed(2),
		FreeAlbumCredits: design.FreeAlbumCredits,
		DollarCredit:     design.DollarCredit.StringFixed(2),
		CreatedAt:        design.CreatedAt,
		UpdatedAt:        design.UpdatedAt,
	}
	if resolver != nil {
		payload.CoverURL = resolver.ResolveOptional(design.CoverAsset, "")
		payload.ProofURL = resolver.ResolveOptional(design.ProofAsset, "")
	}
	return payload
}

func newStudioAlbumPayload(album *models.ClientAlbum, resolver *assets.Resolver) studioAlbumPayload {
	payload := studioAlbumPayload{
		ID:          album.ID,
		ClientName:  album.ClientName,
		ClientEmail: album.ClientEmail,
		ClientPhone: album.ClientPhone,
		CreatedAt:   album.CreatedAt,
		UpdatedAt:   album.UpdatedAt,
	}
	for i := range album.Designs {
		payload.Designs = append(payload.Designs, newStudioDesignPayload(&album.Designs[i], resolver))
	}
	return payload
}

func (req studioDesignRequest) toInput() (albums.DesignInput, error) {
	basePrice, err := decimal.NewFromString(strings.TrimSpace(req.BasePrice))
	if err != nil {
		return albums.DesignInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base_price")
	}

	dollarCredit := decimal.Zero
	if raw := strings.TrimSpace(req.DollarCredit); raw != "" {
		dollarCredit, err = decimal.NewFromString(raw)
		if err != nil {
			return albums.DesignInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dollar_credit")
		}
	}

	return albums.DesignInput{
		Name:             req.Name,
		BasePrice:        basePrice,
		FreeAlbumCredits: req.FreeAlbumCredits,
		DollarCredit:     dollarCredit,
		CoverAsset:       req.CoverAsset,
		ProofAsset:       req.ProofAsset,
	}, nil
}

// ListStudioAlbums returns every client album for the dashboard index.
func ListStudioAlbums(svc albums.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		list, err := svc.ListAlbums(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list albums"))
			return
		}

		payload := make([]studioAlbumPayload, 0, len(list))
		for i := range list {
			payload = append(payload, newStudioAlbumPayload(&list[i], resolver))
		}
		responses.WriteSuccess(w, payload)
	}
}

// StudioAlbumDetail returns one album with its designs.
func StudioAlbumDetail(svc albums.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		album, err := svc.GetAlbum(r.Context(), albumID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch album"))
			return
		}
		if album == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "album not found"))
			return
		}
		responses.WriteSuccess(w, newStudioAlbumPayload(album, resolver))
	}
}

// CreateStudioAlbum provisions a new client album.
func CreateStudioAlbum(svc albums.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		var payload studioAlbumRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		album, err := svc.CreateAlbum(r.Context(), albums.AlbumInput{
			ClientName:  payload.ClientName,
			ClientEmail: payload.ClientEmail,
			ClientPhone: payload.ClientPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newStudioAlbumPayload(album, resolver))
	}
}

// UpdateStudioAlbum edits the client contact fields on an album.
func UpdateStudioAlbum(svc albums.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload studioAlbumRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		album, err := svc.UpdateAlbum(r.Context(), albumID, albums.AlbumInput{
			ClientName:  payload.ClientName,
			ClientEmail: payload.ClientEmail,
			ClientPhone: payload.ClientPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStudioAlbumPayload(album, resolver))
	}
}

// DeleteStudioAlbum removes an album and its designs.
func DeleteStudioAlbum(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAlbum(r.Context(), albumID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// AddStudioDesign appends a design at the album's next free position.
func AddStudioDesign(svc albums.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload studioDesignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, err := svc.AddDesign(r.Context(), albumID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newStudioDesignPayload(design, resolver))
	}
}

// UpdateStudioDesign edits a design in place. Its position never changes.
func UpdateStudioDesign(svc albums.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		position, err := parseDesignPosition(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload studioDesignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, err := svc.UpdateDesign(r.Context(), albumID, position, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStudioDesignPayload(design, resolver))
	}
}

// DeleteStudioDesign removes a design from an album.
func DeleteStudioDesign(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		position, err := parseDesignPosition(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDesign(r.Context(), albumID, position); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

func parseDesignPosition(r *http.Request) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "position"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "design position is required")
	}
	position, err := strconv.Atoi(raw)
	if err != nil || position < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid design position")
	}
	return position, nil
}
