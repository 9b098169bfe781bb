package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

var (
	ErrProductNotFound  = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	ErrCategoryNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
)

// Repository is the catalog storage surface.
type Repository interface {
	InsertProduct(ctx context.Context, product *documents.Product) error
	FindProductByID(ctx context.Context, id string) (*documents.Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]documents.Product, error)
	UpdateProduct(ctx context.Context, product *documents.Product) error
	DeleteProduct(ctx context.Context, id string) error

	InsertCategory(ctx context.Context, category *documents.Category) error
	ListCategories(ctx context.Context) ([]documents.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       types.Money
	CategoryID  string
	Image       string
	Rating      float64
	Discount    float64
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *types.Money
	CategoryID  *string
	Image       *string
	Rating      *float64
	Discount    *float64
}

// Service exposes catalog browsing plus admin product management.
type Service interface {
	ListProducts(ctx context.Context, categoryID string) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id string) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, name, description, image string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id string) error

	// FindProduct feeds the cart's price snapshot.
	FindProduct(ctx context.Context, id string) (*documents.Product, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) ListProducts(ctx context.Context, categoryID string) ([]ProductDTO, error) {
	docs, err := s.repo.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, storeFailure(err, "list products")
	}
	out := make([]ProductDTO, 0, len(docs))
	for i := range docs {
		out = append(out, *productToDTO(&docs[i]))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	product, err := s.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToDTO(product), nil
}

func (s *service) FindProduct(ctx context.Context, id string) (*documents.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, storeFailure(err, "load product")
	}
	return product, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	docs, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, storeFailure(err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(docs))
	for i := range docs {
		out = append(out, *categoryToDTO(&docs[i]))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if err := validateDiscount(input.Discount); err != nil {
		return nil, err
	}

	now := s.now()
	product := &documents.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		Image:       input.Image,
		Rating:      input.Rating,
		Discount:    input.Discount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertProduct(ctx, product); err != nil {
		return nil, storeFailure(err, "insert product")
	}
	return productToDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		product.Name = trimmed
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.Discount != nil {
		if err := validateDiscount(*input.Discount); err != nil {
			return nil, err
		}
		product.Discount = *input.Discount
	}
	product.UpdatedAt = s.now()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, storeFailure(err, "update product")
	}
	return productToDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return storeFailure(err, "delete product")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, name, description, image string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	now := s.now()
	category := &documents.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Image:       image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertCategory(ctx, category); err != nil {
		return nil, storeFailure(err, "insert category")
	}
	return categoryToDTO(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return storeFailure(err, "delete category")
	}
	return nil
}

func validateDiscount(percent float64) error {
	if percent < 0 || percent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	return nil
}

func storeFailure(err error, action string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog store: "+action)
}
