package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/internal/catalog"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

type colorPayload struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Kind          string               `json:"kind"`
	ColorValue    *string              `json:"color_value,omitempty"`
	TextureURL    string               `json:"texture_url,omitempty"`
	TextureRegion *types.TextureRegion `json:"texture_region,omitempty"`
	PreviewURL    string               `json:"preview_url,omitempty"`
	Position      int                  `json:"position"`
}

type materialPayload struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Upcharge        string         `json:"upcharge"`
	AllowEngraving  bool           `json:"allow_engraving"`
	RestrictedSizes []uuid.UUID    `json:"restricted_sizes,omitempty"`
	Colors          []colorPayload `json:"colors"`
}

type sizePayload struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Dimensions string    `json:"dimensions"`
	Upcharge   string    `json:"upcharge"`
	ImageURL   string    `json:"image_url,omitempty"`
}

type engravingOptionPayload struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Upcharge       string    `json:"upcharge"`
	CharacterLimit int       `json:"character_limit"`
	Fonts          []string  `json:"fonts,omitempty"`
	Description    *string   `json:"description,omitempty"`
}

type catalogPayload struct {
	Materials        []materialPayload        `json:"materials"`
	Sizes            []sizePayload            `json:"sizes"`
	EngravingOptions []engravingOptionPayload `json:"engraving_options"`
}

func newMaterialPayload(material *models.Material, resolver *assets.Resolver) materialPayload {
	colors := make([]colorPayload, 0, len(material.Colors))
	for i := range material.Colors {
		color := &material.Colors[i]
		entry := colorPayload{
			ID:            color.ID,
			Name:          color.Name,
			Kind:          string(color.Kind),
			ColorValue:    color.ColorValue,
			TextureRegion: color.TextureRegion,
			Position:      color.Position,
		}
		if resolver != nil {
			entry.TextureURL = resolver.ResolveOptional(color.TextureAsset, "")
			entry.PreviewURL = resolver.ResolveOptional(color.PreviewAsset, "")
		}
		colors = append(colors, entry)
	}
	return materialPayload{
		ID:              material.ID,
		Name:            material.Name,
		Upcharge:        material.Upcharge.StringFixed(2),
		AllowEngraving:  material.AllowEngraving,
		RestrictedSizes: material.RestrictedSizes,
		Colors:          colors,
	}
}

func newSizePayload(size *models.Size, resolver *assets.Resolver) sizePayload {
	entry := sizePayload{
		ID:         size.ID,
		Name:       size.Name,
		Dimensions: size.Dimensions,
		Upcharge:   size.Upcharge.StringFixed(2),
	}
	if resolver != nil {
		entry.ImageURL = resolver.ResolveOptional(size.ImageAsset, "")
	}
	return entry
}

func newEngravingOptionPayload(option *models.EngravingOption) engravingOptionPayload {
	return engravingOptionPayload{
		ID:             option.ID,
		Name:           option.Name,
		Upcharge:       option.Upcharge.StringFixed(2),
		CharacterLimit: option.CharacterLimit,
		Fonts:          option.Fonts,
		Description:    option.Description,
	}
}

func buildCatalogPayload(materials []models.Material, sizes []models.Size, options []models.EngravingOption, resolver *assets.Resolver) catalogPayload {
	payload := catalogPayload{
		Materials:        make([]materialPayload, 0, len(materials)),
		Sizes:            make([]sizePayload, 0, len(sizes)),
		EngravingOptions: make([]engravingOptionPayload, 0, len(options)),
	}
	for i := range materials {
		payload.Materials = append(payload.Materials, newMaterialPayload(&materials[i], resolver))
	}
	for i := range sizes {
		payload.Sizes = append(payload.Sizes, newSizePayload(&sizes[i], resolver))
	}
	for i := range options {
		payload.EngravingOptions = append(payload.EngravingOptions, newEngravingOptionPayload(&options[i]))
	}
	return payload
}

// PublicCatalog returns the full configuration catalog the album page renders:
// materials with their colors, sizes, and engraving options.
func PublicCatalog(svc catalog.Service, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		materials, err := svc.ListMaterials(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials"))
			return
		}
		sizes, err := svc.ListSizes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sizes"))
			return
		}
		options, err := svc.ListEngravingOptions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list engraving options"))
			return
		}

		responses.WriteSuccess(w, buildCatalogPayload(materials, sizes, options, resolver))
	}
}
