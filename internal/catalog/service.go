package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	dbtypes "github.com/lumenpress/albumforge-backend/pkg/db/types"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog lookups for pricing plus the studio admin mutations.
type Service interface {
	GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetSize(ctx context.Context, id uuid.UUID) (*models.Size, error)
	GetEngravingOption(ctx context.Context, id uuid.UUID) (*models.EngravingOption, error)
	ListMaterials(ctx context.Context) ([]models.Material, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
	ListEngravingOptions(ctx context.Context) ([]models.EngravingOption, error)
	AvailableSizesForMaterial(ctx context.Context, materialID uuid.UUID) ([]models.Size, error)
	IsEngravingAllowed(ctx context.Context, materialID uuid.UUID) (bool, error)

	CreateMaterial(ctx context.Context, input MaterialInput) (*models.Material, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, input MaterialInput) (*models.Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	CreateSize(ctx context.Context, input SizeInput) (*models.Size, error)
	UpdateSize(ctx context.Context, id uuid.UUID, input SizeInput) (*models.Size, error)
	DeleteSize(ctx context.Context, id uuid.UUID) error
	CreateEngravingOption(ctx context.Context, input EngravingOptionInput) (*models.EngravingOption, error)
	UpdateEngravingOption(ctx context.Context, id uuid.UUID, input EngravingOptionInput) (*models.EngravingOption, error)
	DeleteEngravingOption(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// ServiceParams wires the catalog service dependencies.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
}

// NewService validates dependencies and builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, tx: params.TransactionRunner}, nil
}

func (s *service) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	return s.repo.FindMaterial(ctx, id)
}

func (s *service) GetSize(ctx context.Context, id uuid.UUID) (*models.Size, error) {
	return s.repo.FindSize(ctx, id)
}

func (s *service) GetEngravingOption(ctx context.Context, id uuid.UUID) (*models.EngravingOption, error) {
	return s.repo.FindEngravingOption(ctx, id)
}

func (s *service) ListMaterials(ctx context.Context) ([]models.Material, error) {
	return s.repo.ListMaterials(ctx)
}

func (s *service) ListSizes(ctx context.Context) ([]models.Size, error) {
	return s.repo.ListSizes(ctx)
}

func (s *service) ListEngravingOptions(ctx context.Context) ([]models.EngravingOption, error) {
	return s.repo.ListEngravingOptions(ctx)
}

// AvailableSizesForMaterial returns every size when the material is missing
// or carries no restriction list, otherwise the intersection in size order.
func (s *service) AvailableSizesForMaterial(ctx context.Context, materialID uuid.UUID) ([]models.Size, error) {
	sizes, err := s.repo.ListSizes(ctx)
	if err != nil {
		return nil, err
	}

	material, err := s.repo.FindMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil || len(material.RestrictedSizes) == 0 {
		return sizes, nil
	}

	allowed := make(map[uuid.UUID]struct{}, len(material.RestrictedSizes))
	for _, id := range material.RestrictedSizes {
		allowed[id] = struct{}{}
	}

	filtered := make([]models.Size, 0, len(sizes))
	for _, size := range sizes {
		if _, ok := allowed[size.ID]; ok {
			filtered = append(filtered, size)
		}
	}
	return filtered, nil
}

func (s *service) IsEngravingAllowed(ctx context.Context, materialID uuid.UUID) (bool, error) {
	material, err := s.repo.FindMaterial(ctx, materialID)
	if err != nil {
		return false, err
	}
	if material == nil {
		return false, nil
	}
	return material.AllowEngraving, nil
}

func (s *service) CreateMaterial(ctx context.Context, input MaterialInput) (*models.Material, error) {
	material, colors, err := buildMaterial(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateMaterial(ctx, material); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create material")
		}
		if err := repo.ReplaceColors(ctx, material.ID, colors); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store colors")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindMaterial(ctx, material.ID)
}

func (s *service) UpdateMaterial(ctx context.Context, id uuid.UUID, input MaterialInput) (*models.Material, error) {
	updated, colors, err := buildMaterial(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindMaterial(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material")
		}
		if existing == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}

		existing.Name = updated.Name
		existing.Upcharge = updated.Upcharge
		existing.AllowEngraving = updated.AllowEngraving
		existing.RestrictedSizes = updated.RestrictedSizes
		if err := repo.UpdateMaterial(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update material")
		}
		if err := repo.ReplaceColors(ctx, id, colors); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store colors")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindMaterial(ctx, id)
}

func (s *service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMaterial(ctx, id)
}

func (s *service) CreateSize(ctx context.Context, input SizeInput) (*models.Size, error) {
	size, err := buildSize(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSize(ctx, size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create size")
	}
	return size, nil
}

func (s *service) UpdateSize(ctx context.Context, id uuid.UUID, input SizeInput) (*models.Size, error) {
	updated, err := buildSize(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindSize(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "size not found")
	}

	existing.Name = updated.Name
	existing.Dimensions = updated.Dimensions
	existing.Upcharge = updated.Upcharge
	existing.ImageAsset = updated.ImageAsset
	if err := s.repo.UpdateSize(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update size")
	}
	return existing, nil
}

func (s *service) DeleteSize(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSize(ctx, id)
}

func (s *service) CreateEngravingOption(ctx context.Context, input EngravingOptionInput) (*models.EngravingOption, error) {
	option, err := buildEngravingOption(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateEngravingOption(ctx, option); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create engraving option")
	}
	return option, nil
}

func (s *service) UpdateEngravingOption(ctx context.Context, id uuid.UUID, input EngravingOptionInput) (*models.EngravingOption, error) {
	updated, err := buildEngravingOption(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindEngravingOption(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "engraving option not found")
	}

	existing.Name = updated.Name
	existing.Upcharge = updated.Upcharge
	existing.CharacterLimit = updated.CharacterLimit
	existing.Fonts = updated.Fonts
	existing.Description = updated.Description
	if err := s.repo.UpdateEngravingOption(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update engraving option")
	}
	return existing, nil
}

func (s *service) DeleteEngravingOption(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEngravingOption(ctx, id)
}

func buildMaterial(input MaterialInput) (*models.Material, []models.Color, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
	}
	if input.Upcharge.IsNegative() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "material upcharge cannot be negative")
	}

	colors := make([]models.Color, 0, len(input.Colors))
	for i, in := range input.Colors {
		color, err := buildColor(in, i)
		if err != nil {
			return nil, nil, err
		}
		colors = append(colors, *color)
	}

	material := &models.Material{
		Name:            strings.TrimSpace(input.Name),
		Upcharge:        input.Upcharge,
		AllowEngraving:  input.AllowEngraving,
		RestrictedSizes: dbtypes.UUIDArray(input.RestrictedSizes),
	}
	return material, colors, nil
}

func buildColor(input ColorInput, position int) (*models.Color, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "color name is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid color kind")
	}

	switch input.Kind {
	case enums.ColorKindSolid:
		if input.ColorValue == nil || strings.TrimSpace(*input.ColorValue) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "solid color requires a color value")
		}
	case enums.ColorKindTexture:
		if input.TextureAsset == nil || strings.TrimSpace(*input.TextureAsset) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "texture color requires a texture asset")
		}
		if input.TextureRegion == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "texture color requires a texture region")
		}
		if err := input.TextureRegion.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "texture region")
		}
	}

	return &models.Color{
		Name:          strings.TrimSpace(input.Name),
		Kind:          input.Kind,
		ColorValue:    input.ColorValue,
		TextureAsset:  input.TextureAsset,
		TextureRegion: input.TextureRegion,
		PreviewAsset:  input.PreviewAsset,
		Position:      position,
	}, nil
}

func buildSize(input SizeInput) (*models.Size, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size name is required")
	}
	if input.Upcharge.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size upcharge cannot be negative")
	}
	return &models.Size{
		Name:       strings.TrimSpace(input.Name),
		Dimensions: strings.TrimSpace(input.Dimensions),
		Upcharge:   input.Upcharge,
		ImageAsset: input.ImageAsset,
	}, nil
}

func buildEngravingOption(input EngravingOptionInput) (*models.EngravingOption, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "engraving option name is required")
	}
	if input.Upcharge.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "engraving upcharge cannot be negative")
	}
	if input.CharacterLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "character limit cannot be negative")
	}
	return &models.EngravingOption{
		Name:           strings.TrimSpace(input.Name),
		Upcharge:       input.Upcharge,
		CharacterLimit: input.CharacterLimit,
		Fonts:          input.Fonts,
		Description:    input.Description,
	}, nil
}
