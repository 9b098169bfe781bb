package catalog

import (
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

// ProductDTO is the API shape of a catalog entry.
type ProductDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       types.Money `json:"price"`
	CategoryID  string      `json:"category_id"`
	Image       string      `json:"image,omitempty"`
	Rating      float64     `json:"rating"`
	Discount    float64     `json:"discount"`
}

// CategoryDTO is the API shape of a category.
type CategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func productToDTO(product *documents.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		Image:       product.Image,
		Rating:      product.Rating,
		Discount:    product.Discount,
	}
}

func categoryToDTO(category *documents.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Image:       category.Image,
	}
}
