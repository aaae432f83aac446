package credits

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
)

// Ledger computes remaining credit for a (album, design position) pair. All
// scans are status-blind: submitted orders reserve credit the moment they
// enter the cart, not only at purchase. excludeOrderID lets an edit-in-place
// skip the order being edited so re-saving never burns its own allocation.
type Ledger interface {
	WithTx(tx *gorm.DB) Ledger
	CountUsedFreeCredits(ctx context.Context, albumID uuid.UUID, designPosition int, excludeOrderID *uuid.UUID) (int64, error)
	AvailableFreeCredits(ctx context.Context, design *models.Design, excludeOrderID *uuid.UUID) (int, error)
	UsedDollarCredits(ctx context.Context, albumID uuid.UUID, designPosition int, excludeOrderID *uuid.UUID) (decimal.Decimal, error)
	AvailableDollarCredits(ctx context.Context, design *models.Design, excludeOrderID *uuid.UUID) (decimal.Decimal, error)
}

type ledger struct {
	db *gorm.DB
}

// NewLedger builds a credit ledger bound to the provided DB.
func NewLedger(db *gorm.DB) Ledger {
	return &ledger{db: db}
}

func (l *ledger) WithTx(tx *gorm.DB) Ledger {
	if tx == nil {
		return l
	}
	return &ledger{db: tx}
}

func (l *ledger) CountUsedFreeCredits(ctx context.Context, albumID uuid.UUID, designPosition int, excludeOrderID *uuid.UUID) (int64, error) {
	query := l.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_album_id = ? AND design_position = ? AND credit_type = ?",
			albumID, designPosition, enums.CreditTypeFreeAlbum)
	if excludeOrderID != nil {
		query = query.Where("id <> ?", *excludeOrderID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (l *ledger) AvailableFreeCredits(ctx context.Context, design *models.Design, excludeOrderID *uuid.UUID) (int, error) {
	if design == nil || design.FreeAlbumCredits <= 0 {
		return 0, nil
	}
	used, err := l.CountUsedFreeCredits(ctx, design.ClientAlbumID, design.Position, excludeOrderID)
	if err != nil {
		return 0, err
	}
	available := design.FreeAlbumCredits - int(used)
	if available < 0 {
		return 0, nil
	}
	return available, nil
}

func (l *ledger) UsedDollarCredits(ctx context.Context, albumID uuid.UUID, designPosition int, excludeOrderID *uuid.UUID) (decimal.Decimal, error) {
	query := l.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_album_id = ? AND design_position = ? AND credit_type = ?",
			albumID, designPosition, enums.CreditTypeDollar)
	if excludeOrderID != nil {
		query = query.Where("id <> ?", *excludeOrderID)
	}

	var used decimal.Decimal
	err := query.Select("COALESCE(SUM(applied_credit), 0)").Scan(&used).Error
	if err != nil {
		return decimal.Zero, err
	}
	return used, nil
}

func (l *ledger) AvailableDollarCredits(ctx context.Context, design *models.Design, excludeOrderID *uuid.UUID) (decimal.Decimal, error) {
	if design == nil || !design.DollarCredit.IsPositive() {
		return decimal.Zero, nil
	}
	used, err := l.UsedDollarCredits(ctx, design.ClientAlbumID, design.Position, excludeOrderID)
	if err != nil {
		return decimal.Zero, err
	}
	available := design.DollarCredit.Sub(used)
	if available.IsNegative() {
		return decimal.Zero, nil
	}
	return available, nil
}
