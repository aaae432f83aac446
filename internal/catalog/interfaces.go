package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
)

// Repository defines persistence operations for the shared catalog tables.
// Lookups return (nil, nil) when the row is absent; a deleted catalog item
// must never crash price computation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	FindSize(ctx context.Context, id uuid.UUID) (*models.Size, error)
	FindEngravingOption(ctx context.Context, id uuid.UUID) (*models.EngravingOption, error)

	ListMaterials(ctx context.Context) ([]models.Material, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
	ListEngravingOptions(ctx context.Context) ([]models.EngravingOption, error)

	CreateMaterial(ctx context.Context, material *models.Material) error
	UpdateMaterial(ctx context.Context, material *models.Material) error
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	ReplaceColors(ctx context.Context, materialID uuid.UUID, colors []models.Color) error

	CreateSize(ctx context.Context, size *models.Size) error
	UpdateSize(ctx context.Context, size *models.Size) error
	DeleteSize(ctx context.Context, id uuid.UUID) error

	CreateEngravingOption(ctx context.Context, option *models.EngravingOption) error
	UpdateEngravingOption(ctx context.Context, option *models.EngravingOption) error
	DeleteEngravingOption(ctx context.Context, id uuid.UUID) error
}
