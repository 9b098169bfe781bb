package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"storefront/api/middleware"
	"storefront/internal/orders"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
)

type stubOrdersService struct {
	listView  orders.View
	list      []orders.OrderDTO
	order     *orders.OrderDTO
	cancelErr error
}

func (s *stubOrdersService) Place(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error) {
	return s.order, nil
}

func (s *stubOrdersService) ListForUser(ctx context.Context, userID string, view orders.View) ([]orders.OrderDTO, error) {
	s.listView = view
	return s.list, nil
}

func (s *stubOrdersService) GetForUser(ctx context.Context, userID, orderID string) (*orders.OrderDTO, error) {
	if s.order == nil {
		return nil, orders.ErrOrderNotFound
	}
	return s.order, nil
}

func (s *stubOrdersService) Cancel(ctx context.Context, userID, orderID string) (*orders.OrderDTO, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.order, nil
}

func (s *stubOrdersService) ListAll(ctx context.Context) ([]orders.OrderDTO, error) {
	return s.list, nil
}

func (s *stubOrdersService) SetStatus(ctx context.Context, orderID string, status orders.Status) (*orders.OrderDTO, error) {
	return s.order, nil
}

func (s *stubOrdersService) SetEstimatedDelivery(ctx context.Context, orderID string, input orders.EstimatedDeliveryInput) (*orders.OrderDTO, error) {
	return s.order, nil
}

func (s *stubOrdersService) Delete(ctx context.Context, orderID string) error {
	return nil
}

func (s *stubOrdersService) Subscribe(filter orders.Filter) (<-chan orders.Event, func()) {
	ch := make(chan orders.Event)
	return ch, func() { close(ch) }
}

func (s *stubOrdersService) Render(order *documents.Order) *orders.OrderDTO {
	return s.order
}

func serveOrders(svc orders.Service, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/v1/orders", OrderList(svc, nil))
	r.Get("/api/v1/orders/{orderId}", OrderDetail(svc, nil))
	r.Post("/api/v1/orders/{orderId}/cancel", OrderCancel(svc, nil))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestOrderListParsesView(t *testing.T) {
	svc := &stubOrdersService{list: []orders.OrderDTO{{ID: "order-1"}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?view=active", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := serveOrders(svc, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listView != orders.ViewActive {
		t.Fatalf("expected active view, got %q", svc.listView)
	}

	var envelope struct {
		Data []orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ID != "order-1" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestOrderListRejectsUnknownView(t *testing.T) {
	svc := &stubOrdersService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?view=archived", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := serveOrders(svc, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderListRequiresPrincipal(t *testing.T) {
	resp := serveOrders(&stubOrdersService{}, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrderCancelMapsWindowExpired(t *testing.T) {
	svc := &stubOrdersService{cancelErr: orders.ErrWindowExpired}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/order-1/cancel", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := serveOrders(svc, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeWindowExpired) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestOrderCancelMapsNotOwner(t *testing.T) {
	svc := &stubOrdersService{cancelErr: orders.ErrNotOwner}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/order-1/cancel", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-2"))
	resp := serveOrders(svc, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := serveOrders(&stubOrdersService{}, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
