package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
)

// Repository defines persistence operations for studio user logins.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.StudioUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.StudioUser, error)
	Create(ctx context.Context, user *models.StudioUser) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a studio user repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.StudioUser, error) {
	var user models.StudioUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StudioUser, error) {
	var user models.StudioUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *models.StudioUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.StudioUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
