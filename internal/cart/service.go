package cart

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/internal/albums"
	"github.com/lumenpress/albumforge-backend/internal/catalog"
	"github.com/lumenpress/albumforge-backend/internal/credits"
	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/internal/pricing"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the client-facing cart. Every operation is scoped to one
// (album, cart token) pair; a token never sees another browser's items.
type Service interface {
	Add(ctx context.Context, albumID uuid.UUID, cartToken string, input ItemInput) (*models.Order, error)
	Update(ctx context.Context, albumID uuid.UUID, cartToken string, orderID uuid.UUID, input ItemInput) (*models.Order, error)
	Remove(ctx context.Context, albumID uuid.UUID, cartToken string, orderID uuid.UUID) error
	Summary(ctx context.Context, albumID uuid.UUID, cartToken string) (*Summary, error)
	Quote(ctx context.Context, albumID uuid.UUID, input ItemInput) (*pricing.Quote, error)
}

type service struct {
	albums  albums.Repository
	catalog catalog.Repository
	ledger  credits.Ledger
	orders  orders.Repository
	tx      txRunner
	logg    *logger.Logger
}

// ServiceParams wires the cart service dependencies.
type ServiceParams struct {
	Albums            albums.Repository
	Catalog           catalog.Repository
	Ledger            credits.Ledger
	Orders            orders.Repository
	TransactionRunner txRunner
	Logger            *logger.Logger
}

// NewService validates dependencies and builds the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Albums == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "albums repo required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repo required")
	}
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "credit ledger required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		albums:  params.Albums,
		catalog: params.Catalog,
		ledger:  params.Ledger,
		orders:  params.Orders,
		tx:      params.TransactionRunner,
		logg:    params.Logger,
	}, nil
}

// selection holds the catalog rows a cart item references, resolved once so
// pricing and snapshotting read the same state.
type selection struct {
	design    *models.Design
	material  *models.Material
	color     *models.Color
	size      *models.Size
	engraving *models.EngravingOption
}

func (s *service) Add(ctx context.Context, albumID uuid.UUID, cartToken string, input ItemInput) (*models.Order, error) {
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		albumsRepo := s.albums.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		ledger := s.ledger.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		sel, err := s.resolveSelection(ctx, albumsRepo, catalogRepo, albumID, input, true)
		if err != nil {
			return err
		}

		quote, err := s.priceSelection(ctx, ledger, sel, nil)
		if err != nil {
			return err
		}

		order := buildOrder(albumID, cartToken, input, sel, quote)
		order.ID = uuid.New()
		order.SubmittedAt = time.Now().UTC()
		if err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store cart item")
		}
		if err := s.recheckCredit(ctx, ledger, sel.design, quote.CreditType); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithAlbumID(ctx, albumID.String())
		ctx = s.logg.WithOrderID(ctx, created.ID.String())
		s.logg.Info(ctx, "cart item added")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, albumID uuid.UUID, cartToken string, orderID uuid.UUID, input ItemInput) (*models.Order, error) {
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		albumsRepo := s.albums.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		ledger := s.ledger.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		order, err := s.findCartItem(ctx, ordersRepo, albumID, cartToken, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be modified").
				WithDetails(map[string]any{"status": order.Status})
		}

		sel, err := s.resolveSelection(ctx, albumsRepo, catalogRepo, albumID, input, true)
		if err != nil {
			return err
		}

		// The edited order sits out of the ledger scan so re-saving the same
		// configuration never burns its own credit allocation.
		quote, err := s.priceSelection(ctx, ledger, sel, &order.ID)
		if err != nil {
			return err
		}

		applySelection(order, input, sel, quote)
		if err := ordersRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		if err := s.recheckCredit(ctx, ledger, sel.design, quote.CreditType); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Remove(ctx context.Context, albumID uuid.UUID, cartToken string, orderID uuid.UUID) error {
	if strings.TrimSpace(cartToken) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		order, err := s.findCartItem(ctx, ordersRepo, albumID, cartToken, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be modified").
				WithDetails(map[string]any{"status": order.Status})
		}
		if err := ordersRepo.Delete(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		return nil
	})
}

func (s *service) Summary(ctx context.Context, albumID uuid.UUID, cartToken string) (*Summary, error) {
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	items, err := s.orders.FindCart(ctx, albumID, cartToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildSummary(items), nil
}

// Quote prices a configuration without persisting anything. It reads current
// credit availability, so the preview matches what Add would charge right now.
func (s *service) Quote(ctx context.Context, albumID uuid.UUID, input ItemInput) (*pricing.Quote, error) {
	sel, err := s.resolveSelection(ctx, s.albums, s.catalog, albumID, input, false)
	if err != nil {
		return nil, err
	}
	quote, err := s.priceSelection(ctx, s.ledger, sel, nil)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// findCartItem loads an order and enforces cart scope: a mismatching album or
// token reads the same as a missing order so tokens cannot probe each other.
func (s *service) findCartItem(ctx context.Context, repo orders.Repository, albumID uuid.UUID, cartToken string, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	if order == nil || order.ClientAlbumID != albumID || order.CartToken != cartToken {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return order, nil
}

// resolveSelection loads and validates everything a cart item references.
// forWrite is set by Add and Update: it takes a row lock on the design so
// concurrent credit allocations serialize, and it enforces the fields a
// persisted item must carry. Quote resolves without either.
func (s *service) resolveSelection(ctx context.Context, albumsRepo albums.Repository, catalogRepo catalog.Repository, albumID uuid.UUID, input ItemInput, forWrite bool) (*selection, error) {
	album, err := albumsRepo.FindAlbum(ctx, albumID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load album")
	}
	if album == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
	}

	findDesign := albumsRepo.FindDesign
	if forWrite {
		findDesign = albumsRepo.FindDesignForUpdate
	}
	design, err := findDesign(ctx, albumID, input.DesignPosition)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design")
	}
	if design == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
	}

	if forWrite {
		if input.MaterialID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material is required")
		}
		if input.SizeID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required")
		}
	}

	sel := &selection{design: design}

	if input.MaterialID != nil {
		material, err := catalogRepo.FindMaterial(ctx, *input.MaterialID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material")
		}
		if material == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected material does not exist")
		}
		sel.material = material
	}

	if input.ColorID != nil {
		if sel.material == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "color requires a material")
		}
		for i := range sel.material.Colors {
			if sel.material.Colors[i].ID == *input.ColorID {
				sel.color = &sel.material.Colors[i]
				break
			}
		}
		if sel.color == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected color does not belong to the material")
		}
	}

	if input.SizeID != nil {
		size, err := catalogRepo.FindSize(ctx, *input.SizeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size")
		}
		if size == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected size does not exist")
		}
		if sel.material != nil && len(sel.material.RestrictedSizes) > 0 {
			allowed := false
			for _, id := range sel.material.RestrictedSizes {
				if id == size.ID {
					allowed = true
					break
				}
			}
			if !allowed {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is not available for the selected material")
			}
		}
		sel.size = size
	}

	if input.EngravingOptionID != nil {
		if sel.material == nil || !sel.material.AllowEngraving {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected material does not support engraving")
		}
		option, err := catalogRepo.FindEngravingOption(ctx, *input.EngravingOptionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load engraving option")
		}
		if option == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected engraving option does not exist")
		}
		if err := validateEngraving(option, input.EngravingText, input.EngravingFont); err != nil {
			return nil, err
		}
		sel.engraving = option
	} else if input.EngravingText != nil && strings.TrimSpace(*input.EngravingText) != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "engraving text requires an engraving option")
	}

	return sel, nil
}

func validateEngraving(option *models.EngravingOption, text, font *string) error {
	if text == nil || strings.TrimSpace(*text) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "engraving text is required")
	}
	if option.CharacterLimit > 0 && len([]rune(strings.TrimSpace(*text))) > option.CharacterLimit {
		return pkgerrors.New(pkgerrors.CodeValidation, "engraving text exceeds the character limit").
			WithDetails(map[string]any{"limit": option.CharacterLimit})
	}
	if len(option.Fonts) > 0 {
		if font == nil || strings.TrimSpace(*font) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "engraving font is required")
		}
		for _, f := range option.Fonts {
			if f == strings.TrimSpace(*font) {
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "engraving font is not offered for this option")
	}
	return nil
}

func (s *service) priceSelection(ctx context.Context, ledger credits.Ledger, sel *selection, excludeOrderID *uuid.UUID) (*pricing.Quote, error) {
	freeCredits, err := ledger.AvailableFreeCredits(ctx, sel.design, excludeOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count free credits")
	}
	dollarCredits, err := ledger.AvailableDollarCredits(ctx, sel.design, excludeOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum dollar credits")
	}

	in := pricing.ComputeInput{
		BasePrice:              sel.design.BasePrice,
		AvailableFreeCredits:   freeCredits,
		AvailableDollarCredits: dollarCredits,
	}
	if sel.material != nil {
		in.MaterialUpcharge = sel.material.Upcharge
	}
	if sel.size != nil {
		in.SizeUpcharge = sel.size.Upcharge
	}
	if sel.engraving != nil {
		in.EngravingUpcharge = sel.engraving.Upcharge
	}

	quote := pricing.Compute(in)
	return &quote, nil
}

// recheckCredit re-counts credit usage after the write, inside the same
// transaction. The design row lock taken at resolve time serializes competing
// allocations, so the count here includes every order that beat this one to
// the lock; an overshoot rolls back with CONFLICT.
func (s *service) recheckCredit(ctx context.Context, ledger credits.Ledger, design *models.Design, creditType enums.CreditType) error {
	switch creditType {
	case enums.CreditTypeFreeAlbum:
		used, err := ledger.CountUsedFreeCredits(ctx, design.ClientAlbumID, design.Position, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recheck free credits")
		}
		if used > int64(design.FreeAlbumCredits) {
			return pkgerrors.New(pkgerrors.CodeConflict, "free album credit is no longer available")
		}
	case enums.CreditTypeDollar:
		used, err := ledger.UsedDollarCredits(ctx, design.ClientAlbumID, design.Position, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recheck dollar credits")
		}
		if used.GreaterThan(design.DollarCredit) {
			return pkgerrors.New(pkgerrors.CodeConflict, "dollar credit is no longer available")
		}
	}
	return nil
}

func buildOrder(albumID uuid.UUID, cartToken string, input ItemInput, sel *selection, quote *pricing.Quote) *models.Order {
	order := &models.Order{
		ClientAlbumID: albumID,
		CartToken:     cartToken,
		Status:        enums.OrderStatusSubmitted,
		PaymentStatus: enums.PaymentStatusUnpaid,
	}
	applySelection(order, input, sel, quote)
	return order
}

// applySelection snapshots the resolved catalog state onto the order row.
// Everything a later screen shows or charges comes from these columns, never
// from a fresh catalog join.
func applySelection(order *models.Order, input ItemInput, sel *selection, quote *pricing.Quote) {
	order.DesignPosition = sel.design.Position
	order.DesignName = sel.design.Name
	order.CoverAsset = sel.design.CoverAsset

	order.BasePrice = quote.BasePrice
	order.MaterialUpcharge = quote.MaterialUpcharge
	order.SizeUpcharge = quote.SizeUpcharge
	order.EngravingUpcharge = quote.EngravingUpcharge
	order.CreditType = quote.CreditType
	order.AppliedCredit = quote.AppliedCredit
	order.Total = quote.Total

	order.MaterialID, order.MaterialName = nil, nil
	order.ColorID, order.ColorName = nil, nil
	order.SizeID, order.SizeName = nil, nil
	order.EngravingOptionID, order.EngravingName = nil, nil
	order.EngravingText, order.EngravingFont = nil, nil

	if sel.material != nil {
		order.MaterialID = &sel.material.ID
		order.MaterialName = &sel.material.Name
	}
	if sel.color != nil {
		order.ColorID = &sel.color.ID
		order.ColorName = &sel.color.Name
	}
	if sel.size != nil {
		order.SizeID = &sel.size.ID
		order.SizeName = &sel.size.Name
	}
	if sel.engraving != nil {
		order.EngravingOptionID = &sel.engraving.ID
		order.EngravingName = &sel.engraving.Name
		order.EngravingText = input.EngravingText
		order.EngravingFont = input.EngravingFont
	}
	order.ClientNotes = input.ClientNotes
}
