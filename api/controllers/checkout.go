package controllers

import (
	"net/http"

	"storefront/api/responses"
	"storefront/api/validators"
	"storefront/internal/checkout"
	"storefront/pkg/logger"
	"storefront/pkg/types"
)

type checkoutRequest struct {
	PaymentMethod string        `json:"payment_method" validate:"required"`
	PaymentStatus string        `json:"payment_status" validate:"omitempty,max=50"`
	Address       types.Address `json:"address" validate:"required"`
}

// Checkout converts the authenticated user's cart into a placed order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requirePrincipal(w, r, logg)
		if !ok || !requireService(w, r, logg, svc != nil, "checkout") {
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placed, err := svc.Checkout(r.Context(), userID, checkout.Input{
			PaymentMethod: body.PaymentMethod,
			PaymentStatus: body.PaymentStatus,
			Address:       body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}
