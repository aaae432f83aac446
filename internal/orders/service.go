package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/pagination"
)

// Service exposes the photographer-facing order operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	Detail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	MarkShipped(ctx context.Context, id uuid.UUID, trackingNumber *string) (*models.Order, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// ServiceParams wires the orders service dependencies.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// NewService validates dependencies and builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return s.repo.List(ctx, params, filters)
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// MarkShipped moves an order from ordered to shipped. The transition is a
// conditional update so a concurrent call cannot ship the same order twice.
func (s *service) MarkShipped(ctx context.Context, id uuid.UUID, trackingNumber *string) (*models.Order, error) {
	updates := map[string]any{"shipped_at": time.Now().UTC()}
	if trackingNumber != nil && strings.TrimSpace(*trackingNumber) != "" {
		trimmed := strings.TrimSpace(*trackingNumber)
		updates["tracking_number"] = trimmed
	}

	applied, err := s.repo.TransitionStatus(ctx, id, enums.OrderStatusOrdered, enums.OrderStatusShipped, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark shipped")
	}
	if !applied {
		order, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if order == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in ordered state").
			WithDetails(map[string]any{"status": order.Status})
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, id.String())
		s.logg.Info(ctx, "order marked shipped")
	}
	return order, nil
}
