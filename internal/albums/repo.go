package albums

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an albums repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindAlbum(ctx context.Context, id uuid.UUID) (*models.ClientAlbum, error) {
	var album models.ClientAlbum
	err := r.db.WithContext(ctx).
		Preload("Designs", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&album).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *repository) ListAlbums(ctx context.Context) ([]models.ClientAlbum, error) {
	var albums []models.ClientAlbum
	err := r.db.WithContext(ctx).
		Preload("Designs", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&albums).Error
	if err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *repository) CreateAlbum(ctx context.Context, album *models.ClientAlbum) error {
	return r.db.WithContext(ctx).Omit("Designs").Create(album).Error
}

func (r *repository) UpdateAlbum(ctx context.Context, album *models.ClientAlbum) error {
	return r.db.WithContext(ctx).Omit("Designs").Save(album).Error
}

func (r *repository) DeleteAlbum(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ClientAlbum{}, "id = ?", id).Error
}

func (r *repository) FindDesign(ctx context.Context, albumID uuid.UUID, position int) (*models.Design, error) {
	var design models.Design
	err := r.db.WithContext(ctx).
		Where("client_album_id = ? AND position = ?", albumID, position).
		First(&design).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &design, nil
}

// FindDesignForUpdate locks the design row for the duration of the calling
// transaction so concurrent credit allocations serialize on it. Callers must
// run inside a transaction for the lock to have any effect.
func (r *repository) FindDesignForUpdate(ctx context.Context, albumID uuid.UUID, position int) (*models.Design, error) {
	var design models.Design
	err := r.db.WithContext(ctx).
		Clauses(designLockClause(r.db.Dialector)...).
		Where("client_album_id = ? AND position = ?", albumID, position).
		First(&design).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &design, nil
}

// designLockClause returns FOR UPDATE on Postgres only. SQLite has no row
// locks, but its single-writer transactions serialize writers anyway.
func designLockClause(d gorm.Dialector) []clause.Expression {
	if d != nil && d.Name() == "postgres" {
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}

// NextDesignPosition returns max(position)+1 for the album, starting at 1.
// Positions are never reused, so a deleted design leaves a permanent gap.
func (r *repository) NextDesignPosition(ctx context.Context, albumID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Design{}).
		Where("client_album_id = ?", albumID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *repository) CreateDesign(ctx context.Context, design *models.Design) error {
	return r.db.WithContext(ctx).Create(design).Error
}

func (r *repository) UpdateDesign(ctx context.Context, design *models.Design) error {
	return r.db.WithContext(ctx).Save(design).Error
}

func (r *repository) DeleteDesign(ctx context.Context, albumID uuid.UUID, position int) error {
	return r.db.WithContext(ctx).
		Delete(&models.Design{}, "client_album_id = ? AND position = ?", albumID, position).Error
}

func (r *repository) CountOrdersForDesign(ctx context.Context, albumID uuid.UUID, position int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_album_id = ? AND design_position = ?", albumID, position).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
