package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/internal/albums"
	"github.com/lumenpress/albumforge-backend/internal/credits"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

type publicDesignPayload struct {
	Position         int    `json:"position"`
	Name             string `json:"name"`
	BasePrice        string `json:"base_price"`
	FreeAlbumCredits int    `json:"free_album_credits"`
	DollarCredit     string `json:"dollar_credit"`
	RemainingFree    int    `json:"remaining_free_credits"`
	RemainingDollar  string `json:"remaining_dollar_credit"`
	CoverURL         string `json:"cover_url,omitempty"`
	ProofURL         string `json:"proof_url,omitempty"`
}

type publicAlbumPayload struct {
	ID         uuid.UUID             `json:"id"`
	ClientName string                `json:"client_name"`
	Designs    []publicDesignPayload `json:"designs"`
}

// PublicAlbum returns the shopper-facing view of one album: its designs with
// live credit availability. Credit counts are derived per request so a
// concurrent purchase is reflected on the next page load.
func PublicAlbum(svc albums.Service, ledger credits.Ledger, resolver *assets.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "albums service unavailable"))
			return
		}

		albumID, err := parseAlbumID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		album, err := svc.GetAlbum(r.Context(), albumID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch album"))
			return
		}
		if album == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "album not found"))
			return
		}

		designs := make([]publicDesignPayload, 0, len(album.Designs))
		for i := range album.Designs {
			design := &album.Designs[i]

			remainingFree, err := ledger.AvailableFreeCredits(r.Context(), design, nil)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive free credits"))
				return
			}
			remainingDollar, err := ledger.AvailableDollarCredits(r.Context(), design, nil)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive dollar credits"))
				return
			}

			entry := publicDesignPayload{
				Position:         design.Position,
				Name:             design.Name,
				BasePrice:        design.BasePrice.StringFixed(2),
				FreeAlbumCredits: design.FreeAlbumCredits,
				DollarCredit:     design.DollarCredit.StringFixed(2),
				RemainingFree:    remainingFree,
				RemainingDollar:  remainingDollar.StringFixed(2),
			}
			if resolver != nil {
				entry.CoverURL = resolver.ResolveOptional(design.CoverAsset, "")
				entry.ProofURL = resolver.ResolveOptional(design.ProofAsset, "")
			}
			designs = append(designs, entry)
		}

		responses.WriteSuccess(w, publicAlbumPayload{
			ID:         album.ID,
			ClientName: album.ClientName,
			Designs:    designs,
		})
	}
}
