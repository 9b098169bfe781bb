package controllers

import (
	"net/http"
	"time"

	"storefront/api/responses"
	"storefront/api/validators"
	"storefront/internal/orders"
	"storefront/pkg/logger"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing shipped delivered cancelled"`
}

type estimatedDeliveryRequest struct {
	At        *time.Time `json:"at,omitempty"`
	TimeOfDay *string    `json:"time_of_day,omitempty" validate:"omitempty,len=5"`
}

// AdminOrderList returns every order across all customers.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		list, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdminOrderSetStatus overwrites the order's status with any of the
// four known values, regardless of the current one.
func AdminOrderSetStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetStatus(r.Context(), orderID, orders.Status(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// AdminOrderSetEstimatedDelivery takes either a full timestamp or a
// time of day ("15:04") merged onto the existing estimated date.
func AdminOrderSetEstimatedDelivery(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body estimatedDeliveryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetEstimatedDelivery(r.Context(), orderID, orders.EstimatedDeliveryInput{
			At:        body.At,
			TimeOfDay: body.TimeOfDay,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// AdminOrderDelete removes the order permanently.
func AdminOrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "orders") {
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
