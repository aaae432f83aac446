package orders

import (
	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
)

// ListFilters narrows the studio order list.
type ListFilters struct {
	AlbumID       *uuid.UUID
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order
	NextCursor *string
}
