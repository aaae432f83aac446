package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *repository) FindSize(ctx context.Context, id uuid.UUID) (*models.Size, error) {
	var size models.Size
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &size, nil
}

func (r *repository) FindEngravingOption(ctx context.Context, id uuid.UUID) (*models.EngravingOption, error) {
	var option models.EngravingOption
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&option).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repository) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var materials []models.Material
	err := r.db.WithContext(ctx).
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("name ASC").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *repository) ListSizes(ctx context.Context) ([]models.Size, error) {
	var sizes []models.Size
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *repository) ListEngravingOptions(ctx context.Context) ([]models.EngravingOption, error) {
	var options []models.EngravingOption
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *repository) CreateMaterial(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *repository) UpdateMaterial(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).
		Omit("Colors").
		Save(material).Error
}

func (r *repository) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id).Error
}

func (r *repository) ReplaceColors(ctx context.Context, materialID uuid.UUID, colors []models.Color) error {
	if err := r.db.WithContext(ctx).Delete(&models.Color{}, "material_id = ?", materialID).Error; err != nil {
		return err
	}
	if len(colors) == 0 {
		return nil
	}
	for i := range colors {
		colors[i].MaterialID = materialID
	}
	return r.db.WithContext(ctx).Create(&colors).Error
}

func (r *repository) CreateSize(ctx context.Context, size *models.Size) error {
	return r.db.WithContext(ctx).Create(size).Error
}

func (r *repository) UpdateSize(ctx context.Context, size *models.Size) error {
	return r.db.WithContext(ctx).Save(size).Error
}

func (r *repository) DeleteSize(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Size{}, "id = ?", id).Error
}

func (r *repository) CreateEngravingOption(ctx context.Context, option *models.EngravingOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *repository) UpdateEngravingOption(ctx context.Context, option *models.EngravingOption) error {
	return r.db.WithContext(ctx).Save(option).Error
}

func (r *repository) DeleteEngravingOption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.EngravingOption{}, "id = ?", id).Error
}
