package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	"github.com/lumenpress/albumforge-backend/pkg/pagination"
)

// Repository defines persistence operations for album orders. Lookups return
// (nil, nil) when the row is absent.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindCart(ctx context.Context, albumID uuid.UUID, cartToken string) ([]models.Order, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) ([]models.Order, error)
	FindByChargeID(ctx context.Context, chargeID string) ([]models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)

	// TransitionStatus performs a conditional check-and-set: the row moves
	// from -> to (applying updates) only if its status still equals from.
	// Returns whether the transition was applied.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
