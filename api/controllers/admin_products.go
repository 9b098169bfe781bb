package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/api/responses"
	"storefront/api/validators"
	"storefront/internal/catalog"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/pkg/types"
)

type productCreateRequest struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=2000"`
	Price       types.Money `json:"price"`
	CategoryID  string      `json:"category_id"`
	Image       string      `json:"image"`
	Rating      float64     `json:"rating" validate:"min=0,max=5"`
	Discount    float64     `json:"discount" validate:"min=0,max=100"`
}

type productUpdateRequest struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *types.Money `json:"price,omitempty"`
	CategoryID  *string      `json:"category_id,omitempty"`
	Image       *string      `json:"image,omitempty"`
	Rating      *float64     `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Discount    *float64     `json:"discount,omitempty" validate:"omitempty,min=0,max=100"`
}

type categoryCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image"`
}

func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "catalog") {
			return
		}

		var body productCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			CategoryID:  body.CategoryID,
			Image:       body.Image,
			Rating:      body.Rating,
			Discount:    body.Discount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "catalog") {
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			CategoryID:  body.CategoryID,
			Image:       body.Image,
			Rating:      body.Rating,
			Discount:    body.Discount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "catalog") {
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminCategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "catalog") {
			return
		}

		var body categoryCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), body.Name, body.Description, body.Image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func AdminCategoryDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireService(w, r, logg, svc != nil, "catalog") {
			return
		}

		categoryID := strings.TrimSpace(chi.URLParam(r, "categoryId"))
		if categoryID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category id is required"))
			return
		}

		if err := svc.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseProductID(r *http.Request) (string, error) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return productID, nil
}
