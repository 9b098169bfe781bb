package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/api/responses"
	"storefront/internal/orders"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

// OrderList returns the caller's orders, partitioned by the ?view
// query value: active, history, or all.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		view, err := orders.ParseView(r.URL.Query().Get("view"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), userID, view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetForUser(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderCancel applies the customer cancellation policy: owner only,
// inside the cancellation window, and only from the processing state.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func parseOrderID(r *http.Request) (string, error) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if orderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return orderID, nil
}
