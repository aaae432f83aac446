package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/internal/payments"
	"github.com/lumenpress/albumforge-backend/internal/pricing"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/metrics"
	"github.com/lumenpress/albumforge-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CustomerInput is the customer snapshot captured at checkout.
type CustomerInput struct {
	Name            string
	Email           string
	Phone           *string
	ShippingAddress types.ShippingAddress
}

// Result is the outcome of a successful checkout.
type Result struct {
	Orders     []models.Order
	Total      decimal.Decimal
	TotalCents int64
	// PaymentIntentID and ClientSecret are set only when card collection is
	// enabled and the batch total is positive.
	PaymentIntentID *string
	ClientSecret    *string
}

// Service turns a submitted cart into ordered orders.
type Service interface {
	Checkout(ctx context.Context, albumID uuid.UUID, cartToken string, customer CustomerInput) (*Result, error)
}

type service struct {
	orders      orders.Repository
	gateway     payments.Gateway
	tx          txRunner
	logg        *logger.Logger
	metrics     *metrics.CommerceMetrics
	collectCard bool
	currency    string
}

// ServiceParams wires the checkout dependencies. Gateway may be nil when card
// collection is disabled.
type ServiceParams struct {
	Orders            orders.Repository
	Gateway           payments.Gateway
	TransactionRunner txRunner
	Logger            *logger.Logger
	Metrics           *metrics.CommerceMetrics
	CollectCard       bool
	CurrencyCode      string
}

// NewService validates dependencies and builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.CollectCard && params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required when card collection is enabled")
	}
	currency := strings.ToLower(strings.TrimSpace(params.CurrencyCode))
	if currency == "" {
		currency = "usd"
	}
	return &service{
		orders:      params.Orders,
		gateway:     params.Gateway,
		tx:          params.TransactionRunner,
		logg:        params.Logger,
		metrics:     params.Metrics,
		collectCard: params.CollectCard,
		currency:    currency,
	}, nil
}

// Checkout flips every submitted order in the cart to ordered in one
// transaction. Each row moves with a conditional update; if any row was
// changed concurrently the whole batch rolls back. Re-running after a commit
// finds an empty cart, so retries are safe.
func (s *service) Checkout(ctx context.Context, albumID uuid.UUID, cartToken string, customer CustomerInput) (*Result, error) {
	started := time.Now()

	if err := validateCustomer(&customer); err != nil {
		s.metrics.IncCheckout("invalid")
		return nil, err
	}
	if strings.TrimSpace(cartToken) == "" {
		s.metrics.IncCheckout("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)

		cart, err := repo.FindCart(ctx, albumID, cartToken)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(cart) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		now := time.Now().UTC()
		address := customer.ShippingAddress.Normalized()
		// gorm's map-based Updates bypasses the model's serializer:json tag,
		// so the address must be marshalled before it reaches the driver.
		addressJSON, err := json.Marshal(&address)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode shipping address")
		}
		total := decimal.Zero
		for i := range cart {
			order := &cart[i]
			updates := map[string]any{
				"ordered_at":       now,
				"customer_name":    customer.Name,
				"customer_email":   customer.Email,
				"customer_phone":   customer.Phone,
				"shipping_address": string(addressJSON),
			}
			applied, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusSubmitted, enums.OrderStatusOrdered, updates)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order")
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeConflict, "cart changed during checkout")
			}
			total = total.Add(order.Total)
		}

		res := &Result{Orders: cart, Total: total, TotalCents: pricing.Cents(total)}

		if s.collectCard && res.TotalCents > 0 {
			intent, err := s.createIntent(ctx, albumID, cart, customer, res.TotalCents)
			if err != nil {
				return err
			}
			for i := range cart {
				err := repo.UpdateFields(ctx, cart[i].ID, map[string]any{
					"payment_intent_id": intent.ID,
					"payment_status":    enums.PaymentStatusPending,
				})
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment intent")
				}
			}
			res.PaymentIntentID = &intent.ID
			if intent.ClientSecret != "" {
				secret := intent.ClientSecret
				res.ClientSecret = &secret
			}
		}

		result = res
		return nil
	})
	if err != nil {
		outcome := "error"
		if appErr := pkgerrors.As(err); appErr != nil {
			switch appErr.Code() {
			case pkgerrors.CodeEmptyCart:
				outcome = "empty_cart"
			case pkgerrors.CodeConflict:
				outcome = "conflict"
			}
		}
		s.metrics.IncCheckout(outcome)
		return nil, err
	}

	s.metrics.IncCheckout("success")
	for _, order := range result.Orders {
		s.metrics.ObserveCheckout(order.CreditType.String(), time.Since(started))
	}
	if s.logg != nil {
		ctx = s.logg.WithAlbumID(ctx, albumID.String())
		s.logg.Info(ctx, fmt.Sprintf("checkout completed for %d orders, confirmation notification queued for %s",
			len(result.Orders), customer.Email))
	}
	return result, nil
}

func (s *service) createIntent(ctx context.Context, albumID uuid.UUID, cart []models.Order, customer CustomerInput, totalCents int64) (*stripe.PaymentIntent, error) {
	ids := make([]string, 0, len(cart))
	for _, order := range cart {
		ids = append(ids, order.ID.String())
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(totalCents),
		Currency: stripe.String(s.currency),
	}
	params.AddMetadata("album_id", albumID.String())
	params.AddMetadata("order_ids", strings.Join(ids, ","))
	params.AddMetadata("customer_name", customer.Name)
	params.AddMetadata("customer_email", customer.Email)

	intent, err := s.gateway.CreatePaymentIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}
	return intent, nil
}

func validateCustomer(customer *CustomerInput) error {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	if customer.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if customer.Email == "" || !strings.Contains(customer.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid customer email is required")
	}
	if err := customer.ShippingAddress.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping address")
	}
	return nil
}
