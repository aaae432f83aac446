package albums

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
)

// Repository defines persistence operations for client albums and designs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindAlbum(ctx context.Context, id uuid.UUID) (*models.ClientAlbum, error)
	ListAlbums(ctx context.Context) ([]models.ClientAlbum, error)
	CreateAlbum(ctx context.Context, album *models.ClientAlbum) error
	UpdateAlbum(ctx context.Context, album *models.ClientAlbum) error
	DeleteAlbum(ctx context.Context, id uuid.UUID) error

	FindDesign(ctx context.Context, albumID uuid.UUID, position int) (*models.Design, error)
	FindDesignForUpdate(ctx context.Context, albumID uuid.UUID, position int) (*models.Design, error)
	NextDesignPosition(ctx context.Context, albumID uuid.UUID) (int, error)
	CreateDesign(ctx context.Context, design *models.Design) error
	UpdateDesign(ctx context.Context, design *models.Design) error
	DeleteDesign(ctx context.Context, albumID uuid.UUID, position int) error

	CountOrdersForDesign(ctx context.Context, albumID uuid.UUID, position int) (int64, error)
}
