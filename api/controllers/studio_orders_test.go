package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	"github.com/lumenpress/albumforge-backend/pkg/pagination"
)

type fakeOrdersService struct {
	lastParams  pagination.Params
	lastFilters orders.ListFilters
	lastID      uuid.UUID
	lastTrack   *string

	list  *orders.OrderList
	order *models.Order
	err   error
}

func (f *fakeOrdersService) List(_ context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	f.lastParams = params
	f.lastFilters = filters
	return f.list, f.err
}

func (f *fakeOrdersService) Detail(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.lastID = id
	return f.order, f.err
}

func (f *fakeOrdersService) MarkShipped(_ context.Context, id uuid.UUID, trackingNumber *string) (*models.Order, error) {
	f.lastID = id
	f.lastTrack = trackingNumber
	return f.order, f.err
}

type fakePaymentsService struct {
	lastOrderID uuid.UUID
	lastAmount  *int64

	order *models.Order
	err   error
}

func (f *fakePaymentsService) HandleEvent(context.Context, *stripe.Event) error { return f.err }

func (f *fakePaymentsService) ManualRefund(_ context.Context, orderID uuid.UUID, amountCents *int64) (*models.Order, error) {
	f.lastOrderID = orderID
	f.lastAmount = amountCents
	return f.order, f.err
}

func orderRequest(method, target, orderID string, body *strings.Reader) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestListStudioOrdersParsesFilters(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeOrdersService{list: &orders.OrderList{Orders: []models.Order{*sampleOrder(albumID)}}}

	target := "/api/studio/v1/orders?limit=10&status=ordered&payment_status=paid&album_id=" + albumID.String()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	ListStudioOrders(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastParams.Limit != 10 {
		t.Fatalf("limit not forwarded, got %d", svc.lastParams.Limit)
	}
	if svc.lastFilters.AlbumID == nil || *svc.lastFilters.AlbumID != albumID {
		t.Fatalf("album filter not forwarded")
	}
	if svc.lastFilters.Status == nil || *svc.lastFilters.Status != enums.OrderStatusOrdered {
		t.Fatalf("status filter not forwarded")
	}
	if svc.lastFilters.PaymentStatus == nil || *svc.lastFilters.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("payment status filter not forwarded")
	}

	var envelope struct {
		Data orderListResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(envelope.Data.Orders))
	}
}

func TestListStudioOrdersRejectsBadStatus(t *testing.T) {
	svc := &fakeOrdersService{list: &orders.OrderList{}}

	req := httptest.NewRequest(http.MethodGet, "/api/studio/v1/orders?status=bogus", nil)
	rec := httptest.NewRecorder()

	ListStudioOrders(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestShipStudioOrderForwardsTracking(t *testing.T) {
	albumID := uuid.New()
	shipped := sampleOrder(albumID)
	shipped.Status = enums.OrderStatusShipped
	svc := &fakeOrdersService{order: shipped}

	orderID := uuid.New()
	body := strings.NewReader(`{"tracking_number":"1Z999AA10123456784"}`)
	req := orderRequest(http.MethodPost, "/api/studio/v1/orders/"+orderID.String()+"/ship", orderID.String(), body)
	rec := httptest.NewRecorder()

	ShipStudioOrder(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastID != orderID {
		t.Fatalf("order id not forwarded")
	}
	if svc.lastTrack == nil || *svc.lastTrack != "1Z999AA10123456784" {
		t.Fatalf("tracking number not forwarded")
	}
}

func TestRefundStudioOrderForwardsAmount(t *testing.T) {
	albumID := uuid.New()
	refunded := sampleOrder(albumID)
	refunded.PaymentStatus = enums.PaymentStatusPartialRefund
	svc := &fakePaymentsService{order: refunded}

	orderID := uuid.New()
	body := strings.NewReader(`{"amount_cents":2500}`)
	req := orderRequest(http.MethodPost, "/api/studio/v1/orders/"+orderID.String()+"/refund", orderID.String(), body)
	rec := httptest.NewRecorder()

	RefundStudioOrder(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastOrderID != orderID {
		t.Fatalf("order id not forwarded")
	}
	if svc.lastAmount == nil || *svc.lastAmount != 2500 {
		t.Fatalf("amount not forwarded")
	}

	var envelope struct {
		Data orderPayload `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PaymentStatus != string(enums.PaymentStatusPartialRefund) {
		t.Fatalf("payment status not serialized: %+v", envelope.Data)
	}
}
