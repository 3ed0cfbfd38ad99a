package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/adapter/http/dto"
	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
	"github.com/iho/subledger/internal/usecase/mocks"
)

func newOrderFixture() (*OrderHandler, *mocks.MockAccountRepository, *mocks.MockOrderRepository) {
	accountRepo := mocks.NewMockAccountRepository()
	orderRepo := mocks.NewMockOrderRepository()

	uc := usecase.NewOrderUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		mocks.NewMockEntryRepository(),
		orderRepo,
		mocks.NewMockServiceRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockProvisioner(),
		mocks.NewMockIDGenerator(),
		nil,
		0,
	)

	return NewOrderHandler(uc), accountRepo, orderRepo
}

func newOrderRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", h.Create)
	r.Get("/orders/{id}", h.Get)
	r.Post("/orders/{id}/evidence", h.SubmitEvidence)
	return r
}

func TestOrderHandlerCreate(t *testing.T) {
	h, _, _ := newOrderFixture()
	router := newOrderRouter(h)

	body := `{
		"account_id": "acct-1",
		"plan": {"plan_id": "plan-30d", "name": "Monthly", "price": "25000", "duration_days": 30, "data_limit_gb": 50},
		"server": {"id": "srv-de-1", "name": "Germany 1"},
		"payment_method": "card_transfer"
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.OrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(domain.StatusWaitingPayment) {
		t.Errorf("status = %q, want waiting_payment", resp.Status)
	}
	if !strings.HasPrefix(resp.ID, "ord_") {
		t.Errorf("id = %q, want ord_ prefix", resp.ID)
	}
	if resp.Plan.Price.Cmp(decimal.NewFromInt(25000)) != 0 {
		t.Errorf("price = %s, want 25000", resp.Plan.Price)
	}
}

func TestOrderHandlerCreateInvalidPlan(t *testing.T) {
	h, _, _ := newOrderFixture()
	router := newOrderRouter(h)

	body := `{
		"account_id": "acct-1",
		"plan": {"plan_id": "", "name": "", "price": "0", "duration_days": 0},
		"server": {"id": "srv-de-1", "name": "Germany 1"},
		"payment_method": "card_transfer"
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOrderHandlerGetNotFound(t *testing.T) {
	h, _, _ := newOrderFixture()
	router := newOrderRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/ord_missing", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected error message in body")
	}
}

func TestOrderHandlerEvidenceConflict(t *testing.T) {
	h, _, orderRepo := newOrderFixture()
	router := newOrderRouter(h)

	// Create through the handler, then flip it terminal behind its back.
	body := `{
		"account_id": "acct-1",
		"plan": {"plan_id": "plan-30d", "name": "Monthly", "price": "25000", "duration_days": 30},
		"server": {"id": "srv-de-1", "name": "Germany 1"},
		"payment_method": "card_transfer"
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	var created dto.OrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created order: %v", err)
	}

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	if _, err := orderRepo.TransitionStatus(ctx, nil, created.ID, domain.StatusWaitingPayment,
		usecase.OrderStatusUpdate{Status: domain.StatusCancelled}); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/"+created.ID+"/evidence",
		strings.NewReader(`{"evidence":"receipt-1"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
