package albums

import "github.com/shopspring/decimal"

// AlbumInput carries an album create/update.
type AlbumInput struct {
	ClientName  string
	ClientEmail *string
	ClientPhone *string
}

// DesignInput carries a design create/update. Position is assigned by the
// service on create and cannot be changed afterwards.
type DesignInput struct {
	Name             string
	BasePrice        decimal.Decimal
	FreeAlbumCredits int
	DollarCredit     decimal.Decimal
	CoverAsset       *string
	ProofAsset       *string
}
