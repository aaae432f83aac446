package albums

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/pkg/db"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages client albums and their design ordinals. Designs keep the
// position they were created with for their whole lifetime: orders reference
// designs by (album, position), so reordering or renumbering would silently
// repoint historical orders at a different design.
type Service interface {
	GetAlbum(ctx context.Context, id uuid.UUID) (*models.ClientAlbum, error)
	ListAlbums(ctx context.Context) ([]models.ClientAlbum, error)
	CreateAlbum(ctx context.Context, input AlbumInput) (*models.ClientAlbum, error)
	UpdateAlbum(ctx context.Context, id uuid.UUID, input AlbumInput) (*models.ClientAlbum, error)
	DeleteAlbum(ctx context.Context, id uuid.UUID) error

	AddDesign(ctx context.Context, albumID uuid.UUID, input DesignInput) (*models.Design, error)
	UpdateDesign(ctx context.Context, albumID uuid.UUID, position int, input DesignInput) (*models.Design, error)
	DeleteDesign(ctx context.Context, albumID uuid.UUID, position int) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// ServiceParams wires the albums service dependencies.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
}

// NewService validates dependencies and builds the albums service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "albums repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, tx: params.TransactionRunner}, nil
}

func (s *service) GetAlbum(ctx context.Context, id uuid.UUID) (*models.ClientAlbum, error) {
	return s.repo.FindAlbum(ctx, id)
}

func (s *service) ListAlbums(ctx context.Context) ([]models.ClientAlbum, error) {
	return s.repo.ListAlbums(ctx)
}

func (s *service) CreateAlbum(ctx context.Context, input AlbumInput) (*models.ClientAlbum, error) {
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	album := &models.ClientAlbum{
		ID:          uuid.New(),
		ClientName:  strings.TrimSpace(input.ClientName),
		ClientEmail: input.ClientEmail,
		ClientPhone: input.ClientPhone,
	}
	if err := s.repo.CreateAlbum(ctx, album); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create album")
	}
	return album, nil
}

func (s *service) UpdateAlbum(ctx context.Context, id uuid.UUID, input AlbumInput) (*models.ClientAlbum, error) {
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	album, err := s.repo.FindAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
	}

	album.ClientName = strings.TrimSpace(input.ClientName)
	album.ClientEmail = input.ClientEmail
	album.ClientPhone = input.ClientPhone
	if err := s.repo.UpdateAlbum(ctx, album); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update album")
	}
	return album, nil
}

func (s *service) DeleteAlbum(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAlbum(ctx, id)
}

// AddDesign assigns the next free position inside a transaction so two
// concurrent adds cannot claim the same ordinal.
func (s *service) AddDesign(ctx context.Context, albumID uuid.UUID, input DesignInput) (*models.Design, error) {
	if err := validateDesignInput(input); err != nil {
		return nil, err
	}

	var design *models.Design
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		album, err := repo.FindAlbum(ctx, albumID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load album")
		}
		if album == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
		}

		position, err := repo.NextDesignPosition(ctx, albumID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next design position")
		}

		design = &models.Design{
			ID:               uuid.New(),
			ClientAlbumID:    albumID,
			Position:         position,
			Name:             strings.TrimSpace(input.Name),
			BasePrice:        input.BasePrice,
			FreeAlbumCredits: input.FreeAlbumCredits,
			DollarCredit:     input.DollarCredit,
			CoverAsset:       input.CoverAsset,
			ProofAsset:       input.ProofAsset,
		}
		if err := repo.CreateDesign(ctx, design); err != nil {
			if db.IsUniqueViolation(err, "idx_designs_album_position") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "design position already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create design")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return design, nil
}

// UpdateDesign edits a design in place. The position never changes.
func (s *service) UpdateDesign(ctx context.Context, albumID uuid.UUID, position int, input DesignInput) (*models.Design, error) {
	if err := validateDesignInput(input); err != nil {
		return nil, err
	}

	design, err := s.repo.FindDesign(ctx, albumID, position)
	if err != nil {
		return nil, err
	}
	if design == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
	}

	design.Name = strings.TrimSpace(input.Name)
	design.BasePrice = input.BasePrice
	design.FreeAlbumCredits = input.FreeAlbumCredits
	design.DollarCredit = input.DollarCredit
	design.CoverAsset = input.CoverAsset
	design.ProofAsset = input.ProofAsset
	if err := s.repo.UpdateDesign(ctx, design); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update design")
	}
	return design, nil
}

// DeleteDesign refuses when any order references the ordinal. Orders pin a
// design by position, so deleting out from under them would repoint credit
// pools and snapshots at a phantom design.
func (s *service) DeleteDesign(ctx context.Context, albumID uuid.UUID, position int) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		design, err := repo.FindDesign(ctx, albumID, position)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design")
		}
		if design == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
		}

		count, err := repo.CountOrdersForDesign(ctx, albumID, position)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count design orders")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "design has orders and cannot be deleted")
		}
		if err := repo.DeleteDesign(ctx, albumID, position); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete design")
		}
		return nil
	})
}

func validateDesignInput(input DesignInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "design name is required")
	}
	if input.BasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	if input.FreeAlbumCredits < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "free album credits cannot be negative")
	}
	if input.DollarCredit.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "dollar credit cannot be negative")
	}
	return nil
}
