package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"

	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/internal/pricing"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/metrics"
)

// Service reconciles gateway payment events with order payment state and
// issues photographer-triggered refunds.
type Service interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
	ManualRefund(ctx context.Context, orderID uuid.UUID, amountCents *int64) (*models.Order, error)
}

type service struct {
	orders  orders.Repository
	gateway Gateway
	logg    *logger.Logger
	metrics *metrics.CommerceMetrics
}

// ServiceParams wires the payment reconciliation dependencies. Gateway may be
// nil when card collection is disabled; webhook handling still works, only
// ManualRefund requires it.
type ServiceParams struct {
	Orders  orders.Repository
	Gateway Gateway
	Logger  *logger.Logger
	Metrics *metrics.CommerceMetrics
}

// NewService validates dependencies and builds the payments service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	return &service{
		orders:  params.Orders,
		gateway: params.Gateway,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.handlePaymentSucceeded(ctx, &intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.handlePaymentFailed(ctx, &intent)
	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode charge event")
		}
		return s.handleRefund(ctx, &charge)
	default:
		return nil
	}
}

// handlePaymentSucceeded marks every order on the intent as paid. Orders that
// already show paid are skipped so redeliveries change nothing. A per-order
// failure is collected and the rest keep processing.
func (s *service) handlePaymentSucceeded(ctx context.Context, intent *stripe.PaymentIntent) error {
	matched, err := s.orders.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders for intent")
	}
	if len(matched) == 0 {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("payment intent %s matches no orders", intent.ID))
		}
		return nil
	}

	var chargeID *string
	if intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		chargeID = &intent.LatestCharge.ID
	}

	now := time.Now().UTC()
	var errs error
	for i := range matched {
		order := &matched[i]
		if order.PaymentStatus == enums.PaymentStatusPaid {
			continue
		}

		updates := map[string]any{
			"payment_status":       enums.PaymentStatusPaid,
			"paid_at":              now,
			"payment_amount_cents": pricing.Cents(order.Total),
			"payment_error":        nil,
		}
		if chargeID != nil {
			updates["charge_id"] = *chargeID
		}

		if order.Status == enums.OrderStatusSubmitted {
			// Checkout crashed between intent creation and the status flip;
			// the webhook completes the transition and restores the customer
			// snapshot from the intent metadata.
			backfillCustomer(order, intent.Metadata, updates)
			updates["ordered_at"] = now
			applied, err := s.orders.TransitionStatus(ctx, order.ID, enums.OrderStatusSubmitted, enums.OrderStatusOrdered, updates)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
				continue
			}
			if applied {
				continue
			}
			delete(updates, "ordered_at")
		}

		if err := s.orders.UpdateFields(ctx, order.ID, updates); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "apply payment success")
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("payment intent %s reconciled across %d orders", intent.ID, len(matched)))
	}
	return nil
}

func backfillCustomer(order *models.Order, metadata map[string]string, updates map[string]any) {
	if order.CustomerName == nil {
		if name, ok := metadata["customer_name"]; ok && name != "" {
			updates["customer_name"] = name
		}
	}
	if order.CustomerEmail == nil {
		if email, ok := metadata["customer_email"]; ok && email != "" {
			updates["customer_email"] = email
		}
	}
}

// handlePaymentFailed records the failure message. The order lifecycle is
// untouched: a failed card leaves the cart exactly where it was.
func (s *service) handlePaymentFailed(ctx context.Context, intent *stripe.PaymentIntent) error {
	matched, err := s.orders.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders for intent")
	}

	message := "payment failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		message = intent.LastPaymentError.Msg
	}

	var errs error
	for i := range matched {
		order := &matched[i]
		if order.PaymentStatus == enums.PaymentStatusPaid {
			continue
		}
		err := s.orders.UpdateFields(ctx, order.ID, map[string]any{
			"payment_status": enums.PaymentStatusFailed,
			"payment_error":  message,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "apply payment failure")
	}
	return nil
}

// handleRefund applies the gateway's cumulative refund state. A cumulative
// amount covering the full charge means refunded; anything less is a partial
// refund.
func (s *service) handleRefund(ctx context.Context, charge *stripe.Charge) error {
	matched, err := s.orders.FindByChargeID(ctx, charge.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders for charge")
	}
	if len(matched) == 0 {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("refunded charge %s matches no orders", charge.ID))
		}
		return nil
	}

	full := charge.AmountRefunded >= charge.Amount
	status := enums.PaymentStatusPartialRefund
	kind := "partial"
	if full {
		status = enums.PaymentStatusRefunded
		kind = "full"
	}

	var refundID *string
	if charge.Refunds != nil && len(charge.Refunds.Data) > 0 && charge.Refunds.Data[0] != nil {
		refundID = &charge.Refunds.Data[0].ID
	}

	// A charge can cover several orders. Stripe only reports one cumulative
	// amount, so partial refunds are attributed pro-rata by each order's share
	// of the charge.
	var totalPaid int64
	for i := range matched {
		totalPaid += matched[i].PaymentAmountCents
	}

	now := time.Now().UTC()
	var errs error
	for i := range matched {
		order := &matched[i]
		updates := map[string]any{
			"payment_status": status,
			"refunded_at":    now,
		}
		if refundID != nil {
			updates["refund_id"] = *refundID
		}
		switch {
		case full:
			updates["refund_amount_cents"] = order.PaymentAmountCents
		case totalPaid > 0:
			share := charge.AmountRefunded * order.PaymentAmountCents / totalPaid
			updates["refund_amount_cents"] = min64(share, order.PaymentAmountCents)
		}
		if err := s.orders.UpdateFields(ctx, order.ID, updates); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "apply refund")
	}

	s.metrics.IncRefund(kind)
	return nil
}

// ManualRefund issues a gateway refund for one order and applies the same
// full/partial determination the webhook path uses.
func (s *service) ManualRefund(ctx context.Context, orderID uuid.UUID, amountCents *int64) (*models.Order, error) {
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway unavailable")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.ChargeID == nil || order.PaymentAmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no captured payment")
	}

	remaining := order.PaymentAmountCents - order.RefundAmountCents
	if remaining <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already fully refunded")
	}

	amount := remaining
	if amountCents != nil {
		if *amountCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive")
		}
		if *amountCents > remaining {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount exceeds the remaining balance").
				WithDetails(map[string]any{"remaining_cents": remaining})
		}
		amount = *amountCents
	}

	ref, err := s.gateway.Refund(ctx, &stripe.RefundParams{
		Charge: stripe.String(*order.ChargeID),
		Amount: stripe.Int64(amount),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue refund")
	}

	refunded := order.RefundAmountCents + amount
	status := enums.PaymentStatusPartialRefund
	kind := "partial"
	if refunded >= order.PaymentAmountCents {
		status = enums.PaymentStatusRefunded
		kind = "full"
	}

	updates := map[string]any{
		"payment_status":      status,
		"refund_amount_cents": refunded,
		"refund_id":           ref.ID,
		"refunded_at":         time.Now().UTC(),
	}
	if err := s.orders.UpdateFields(ctx, orderID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refund")
	}

	s.metrics.IncRefund(kind)
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Info(ctx, fmt.Sprintf("refund %s issued for %d cents", ref.ID, amount))
	}
	return s.orders.FindByID(ctx, orderID)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
