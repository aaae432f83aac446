package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/api/validators"
	"github.com/lumenpress/albumforge-backend/internal/catalog"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

type studioColorRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Kind          string  `json:"kind" validate:"required"`
	ColorValue    *string `json:"color_value,omitempty" validate:"omitempty,max=50"`
	TextureAsset  *string `json:"texture_asset,omitempty" validate:"omitempty,max=500"`
	TextureRegion *string `json:"texture_region,omitempty"`
	PreviewAsset  *string `json:"preview_asset,omitempty" validate:"omitempty,max=500"`
}

type studioMaterialRequest struct {
	Name            string               `json:"name" validate:"required,max=200"`
	Upcharge        string               `json:"upcharge,omitempty"`
	AllowEngraving  bool                 `json:"allow_engraving"`
	RestrictedSizes []string             `json:"restricted_sizes,omitempty" validate:"omitempty,dive,uuid4"`
	Colors          []studioColorRequest `json:"colors" validate:"omitempty,dive"`
}

type studioSizeRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Dimensions string  `json:"dimensions" validate:"omitempty,max=100"`
	Upcharge   string  `json:"upcharge,omitempty"`
	ImageAsset *string `json:"image_asset,omitempty" validate:"omitempty,max=500"`
}

type studioEngravingOptionRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Upcharge       string   `json:"upcharge,omitempty"`
	CharacterLimit int      `json:"character_limit" validate:"min=0"`
	Fonts          []string `json:"fonts,omitempty" validate:"omitempty,dive,max=100"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
}

func parseUpcharge(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upcharge")
	}
	return amount, nil
}

func (req studioMaterialRequest) toInput() (catalog.MaterialInput, error) {
	upcharge, err := parseUpcharge(req.Upcharge)
	if err != nil {
		return catalog.MaterialInput{}, err
	}

	restricted := make([]uuid.UUID, 0, len(req.RestrictedSizes))
	for _, raw := range req.RestrictedSizes {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return catalog.MaterialInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restricted size id")
		}
		restricted = append(restricted, id)
	}

	colors := make([]catalog.ColorInput, 0, len(req.Colors))
	for _, colorReq := range req.Colors {
		kind, err := enums.ParseColorKind(colorReq.Kind)
		if err != nil {
			return catalog.MaterialInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid color kind")
		}

		color := catalog.ColorInput{
			Name:         colorReq.Name,
			Kind:         kind,
			ColorValue:   colorReq.ColorValue,
			TextureAsset: colorReq.TextureAsset,
			PreviewAsset: colorReq.PreviewAsset,
		}
		if colorReq.TextureRegion != nil && strings.TrimSpace(*colorReq.TextureRegion) != "" {
			region, err := types.ParseTextureRegion(*colorReq.TextureRegion)
			if err != nil {
				return catalog.MaterialInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid texture region")
			}
			color.TextureRegion = &region
		}
		colors = append(colors, color)
	}

	return catalog.MaterialInput{
		Name:            req.Name,
		Upcharge:        upcharge,
		AllowEngraving:  req.AllowEngraving,
		RestrictedSizes: restricted,
		Colors:          colors,
	}, nil
}

func (req studioSizeRequest) toInput() (catalog.SizeInput, error) {
	upcharge, err := parseUpcharge(req.Upcharge)
	if err != nil {
		return catalog.SizeInput{}, err
	}
	return catalog.SizeInput{
		Name:       req.Name,
		Dimensions: req.Dimensions,
		Upcharge:   upcharge,
		ImageAsset: req.ImageAsset,
	}, nil
}

func (req studioEngravingOptionRequest) toInput() (catalog.EngravingOptionInput, error) {
	upcharge, err := parseUpcharge(req.Upcharge)
	if err != nil {
		return catalog.EngravingOptionInput{}, err
	}
	return catalog.EngravingOptionInput{
		Name:           req.Name,
		Upcharge:       upcharge,
		CharacterLimit: req.CharacterLimit,
		Fonts:          req.Fonts,
		Description:    req.Description,
	}, nil
}

// CreateMaterial adds a material with its color set.
func CreateMaterial(svc catalog.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload studioMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.CreateMaterial(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newMaterialPayload(material, resolver))
	}
}

// UpdateMaterial replaces a material's fields and color set.
func UpdateMaterial(svc catalog.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		materialID, err := parsePathUUID(r, "materialId", "material id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload studioMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.UpdateMaterial(r.Context(), materialID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMaterialPayload(material, resolver))
	}
}

// DeleteMaterial removes a material. Orders that already snapshot its name
// keep rendering from their own columns.
func DeleteMaterial(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		materialID, err := parsePathUUID(r, "materialId", "material id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMaterial(r.Context(), materialID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// CreateSize adds a size to the shared catalog.
func CreateSize(svc catalog.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload studioSizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		size, err := svc.CreateSize(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSizePayload(size, resolver))
	}
}

// UpdateSize edits a size.
func UpdateSize(svc catalog.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sizeID, err := parsePathUUID(r, "sizeId", "size id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload studioSizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		size, err := svc.UpdateSize(r.Context(), sizeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSizePayload(size, resolver))
	}
}

// DeleteSize removes a size from the shared catalog.
func DeleteSize(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sizeID, err := parsePathUUID(r, "sizeId", "size id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSize(r.Context(), sizeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// CreateEngravingOption adds an engraving option.
func CreateEngravingOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload studioEngravingOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.CreateEngravingOption(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newEngravingOptionPayload(option))
	}
}

// UpdateEngravingOption edits an engraving option.
func UpdateEngravingOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		optionID, err := parsePathUUID(r, "optionId", "engraving option id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload studioEngravingOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.UpdateEngravingOption(r.Context(), optionID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newEngravingOptionPayload(option))
	}
}

// DeleteEngravingOption removes an engraving option.
func DeleteEngravingOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		optionID, err := parsePathUUID(r, "optionId", "engraving option id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEngravingOption(r.Context(), optionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
