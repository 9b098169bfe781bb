package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/api/middleware"
	"storefront/api/responses"
	"storefront/api/validators"
	"storefront/internal/cart"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

type cartAddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type cartQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "cart") {
			return
		}

		result, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CartAddItem appends one unit of the product, snapshotting its current
// catalog price onto the line.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "cart") {
			return
		}

		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItem(r.Context(), userID, body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CartSetQuantity replaces the line's quantity; zero or below removes
// the line.
func CartSetQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "cart") {
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SetQuantity(r.Context(), userID, productID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "cart") {
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		result, err := svc.RemoveItem(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "cart") {
			return
		}

		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func requirePrincipal(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
		return "", false
	}
	return userID, true
}

func requireService(w http.ResponseWriter, r *http.Request, logg *logger.Logger, available bool, name string) bool {
	if !available {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
		return false
	}
	return true
}
