package payments

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"github.com/stripe/stripe-go/v84/refund"

	pkgstripe "github.com/lumenpress/albumforge-backend/pkg/stripe"
)

// Gateway exposes the subset of Stripe operations checkout and refunds need.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Refund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error)
}

type stripeGateway struct{}

// NewGateway wraps the configured Stripe client so services can be tested.
func NewGateway(api *pkgstripe.Client) Gateway {
	if api == nil {
		return nil
	}
	return &stripeGateway{}
}

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (g *stripeGateway) Refund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error) {
	if params != nil {
		params.Context = ctx
	}
	return refund.New(params)
}
