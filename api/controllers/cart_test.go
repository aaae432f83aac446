package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenpress/albumforge-backend/internal/cart"
	"github.com/lumenpress/albumforge-backend/internal/pricing"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	"github.com/lumenpress/albumforge-backend/pkg/enums"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
)

type fakeCartService struct {
	addCalls    int
	lastAlbumID uuid.UUID
	lastToken   string
	lastInput   cart.ItemInput

	order   *models.Order
	summary *cart.Summary
	quote   *pricing.Quote
	err     error
}

func (f *fakeCartService) Add(_ context.Context, albumID uuid.UUID, token string, input cart.ItemInput) (*models.Order, error) {
	f.addCalls++
	f.lastAlbumID = albumID
	f.lastToken = token
	f.lastInput = input
	return f.order, f.err
}

func (f *fakeCartService) Update(_ context.Context, albumID uuid.UUID, token string, _ uuid.UUID, input cart.ItemInput) (*models.Order, error) {
	f.lastAlbumID = albumID
	f.lastToken = token
	f.lastInput = input
	return f.order, f.err
}

func (f *fakeCartService) Remove(_ context.Context, albumID uuid.UUID, token string, _ uuid.UUID) error {
	f.lastAlbumID = albumID
	f.lastToken = token
	return f.err
}

func (f *fakeCartService) Summary(_ context.Context, albumID uuid.UUID, token string) (*cart.Summary, error) {
	f.lastAlbumID = albumID
	f.lastToken = token
	return f.summary, f.err
}

func (f *fakeCartService) Quote(_ context.Context, albumID uuid.UUID, input cart.ItemInput) (*pricing.Quote, error) {
	f.lastAlbumID = albumID
	f.lastInput = input
	return f.quote, f.err
}

func cartRequest(method, target, albumID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("albumId", albumID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func sampleOrder(albumID uuid.UUID) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		ClientAlbumID:  albumID,
		CartToken:      "tok-1",
		Status:         enums.OrderStatusSubmitted,
		DesignPosition: 2,
		DesignName:     "Linen Classic",
		BasePrice:      decimal.NewFromInt(120),
		Total:          decimal.NewFromInt(120),
		CreditType:     enums.CreditTypeNone,
		PaymentStatus:  enums.PaymentStatusUnpaid,
		SubmittedAt:    time.Now().UTC(),
	}
}

func TestAddCartItemCreatesOrder(t *testing.T) {
	albumID := uuid.New()
	materialID := uuid.New()
	svc := &fakeCartService{order: sampleOrder(albumID)}

	body := `{"design_position":2,"material_id":"` + materialID.String() + `"}`
	req := cartRequest(http.MethodPost, "/api/v1/albums/"+albumID.String()+"/cart", albumID.String(), strings.NewReader(body))
	req.Header.Set("X-Cart-Token", "tok-1")
	rec := httptest.NewRecorder()

	AddCartItem(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.addCalls != 1 {
		t.Fatalf("expected 1 add call, got %d", svc.addCalls)
	}
	if svc.lastAlbumID != albumID {
		t.Fatalf("album id not forwarded")
	}
	if svc.lastToken != "tok-1" {
		t.Fatalf("cart token not forwarded, got %q", svc.lastToken)
	}
	if svc.lastInput.MaterialID == nil || *svc.lastInput.MaterialID != materialID {
		t.Fatalf("material id not forwarded")
	}

	var envelope struct {
		Data orderPayload `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DesignName != "Linen Classic" {
		t.Fatalf("unexpected design name %q", envelope.Data.DesignName)
	}
	if envelope.Data.Total != "120.00" {
		t.Fatalf("unexpected total %q", envelope.Data.Total)
	}
}

func TestAddCartItemRequiresCartToken(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeCartService{order: sampleOrder(albumID)}

	req := cartRequest(http.MethodPost, "/api/v1/albums/"+albumID.String()+"/cart", albumID.String(), strings.NewReader(`{"design_position":1}`))
	rec := httptest.NewRecorder()

	AddCartItem(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.addCalls != 0 {
		t.Fatalf("service must not be called without a token")
	}
}

func TestAddCartItemRejectsInvalidPosition(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeCartService{order: sampleOrder(albumID)}

	req := cartRequest(http.MethodPost, "/api/v1/albums/"+albumID.String()+"/cart", albumID.String(), strings.NewReader(`{"design_position":0}`))
	req.Header.Set("X-Cart-Token", "tok-1")
	rec := httptest.NewRecorder()

	AddCartItem(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.addCalls != 0 {
		t.Fatalf("service must not be called for invalid payloads")
	}
}

func TestAddCartItemSurfacesCreditConflict(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "free album credits exhausted")}

	req := cartRequest(http.MethodPost, "/api/v1/albums/"+albumID.String()+"/cart", albumID.String(), strings.NewReader(`{"design_position":1}`))
	req.Header.Set("X-Cart-Token", "tok-1")
	rec := httptest.NewRecorder()

	AddCartItem(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "free album credits exhausted") {
		t.Fatalf("conflict message not surfaced: %s", rec.Body.String())
	}
}

func TestCartSummaryReturnsTotals(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeCartService{summary: &cart.Summary{
		Items: []cart.SummaryItem{{
			OrderID:        uuid.New(),
			DesignPosition: 1,
			DesignName:     "Velvet",
			CreditType:     enums.CreditTypeFreeAlbum,
			AppliedCredit:  decimal.NewFromInt(100),
			Total:          decimal.NewFromInt(25),
		}},
		Count: 1,
		Total: decimal.NewFromInt(25),
	}}

	req := cartRequest(http.MethodGet, "/api/v1/albums/"+albumID.String()+"/cart", albumID.String(), nil)
	req.Header.Set("X-Cart-Token", "tok-9")
	rec := httptest.NewRecorder()

	CartSummary(svc, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastToken != "tok-9" {
		t.Fatalf("cart token not forwarded")
	}

	var envelope struct {
		Data cartSummaryPayload `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Count != 1 || envelope.Data.Total != "25.00" {
		t.Fatalf("unexpected summary: %+v", envelope.Data)
	}
	if envelope.Data.Items[0].CreditType != string(enums.CreditTypeFreeAlbum) {
		t.Fatalf("credit type not serialized: %+v", envelope.Data.Items[0])
	}
}

func TestQuoteCartItemDoesNotNeedToken(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeCartService{quote: &pricing.Quote{
		BasePrice:     decimal.NewFromInt(120),
		Subtotal:      decimal.NewFromInt(145),
		CreditType:    enums.CreditTypeDollar,
		AppliedCredit: decimal.NewFromInt(50),
		Total:         decimal.NewFromInt(95),
	}}

	req := cartRequest(http.MethodPost, "/api/v1/albums/"+albumID.String()+"/quote", albumID.String(), strings.NewReader(`{"design_position":3}`))
	rec := httptest.NewRecorder()

	QuoteCartItem(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data quotePayload `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != "95.00" || envelope.Data.AppliedCredit != "50.00" {
		t.Fatalf("unexpected quote: %+v", envelope.Data)
	}
}

func TestRemoveCartItemRejectsBadOrderID(t *testing.T) {
	albumID := uuid.New()
	svc := &fakeCartService{}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/albums/"+albumID.String()+"/cart/not-a-uuid", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("albumId", albumID.String())
	rc.URLParams.Add("orderId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	req.Header.Set("X-Cart-Token", "tok-1")
	rec := httptest.NewRecorder()

	RemoveCartItem(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
