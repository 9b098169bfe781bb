package cart

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

// ErrCartNotFound distinguishes a missing cart record at the storage
// layer. Callers treat it as an empty cart.
var ErrCartNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")

// Repository is the cart storage surface.
type Repository interface {
	Find(ctx context.Context, userID string) (*documents.Cart, error)
	Upsert(ctx context.Context, cart *documents.Cart) error
	Delete(ctx context.Context, userID string) error
}

// ProductReader supplies the catalog records whose price the cart
// snapshots at the moment of adding.
type ProductReader interface {
	FindProduct(ctx context.Context, id string) (*documents.Product, error)
}

// CartItemDTO is one cart line as rendered to clients.
type CartItemDTO struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Image     string      `json:"image,omitempty"`
	Quantity  int64       `json:"quantity"`
	Subtotal  types.Money `json:"subtotal"`
}

// CartDTO is the API shape of a cart. Total is recomputed from the
// item set on every read, never cached.
type CartDTO struct {
	Items []CartItemDTO `json:"items"`
	Total types.Money   `json:"total"`
}

// Service exposes the cart mutations consumed by the storefront and by
// checkout.
type Service interface {
	Get(ctx context.Context, userID string) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID string) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int64) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID string) (*CartDTO, error)
	Clear(ctx context.Context, userID string) error
	Snapshot(ctx context.Context, userID string) ([]documents.CartItem, types.Money, error)
}

type service struct {
	repo    Repository
	catalog ProductReader
}

// NewService constructs a cart service instance.
func NewService(repo Repository, catalog ProductReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// Get returns the user's cart, materializing an empty one when no
// record exists. The missing record is not persisted; an empty cart
// and no cart read back the same.
func (s *service) Get(ctx context.Context, userID string) (*CartDTO, error) {
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

// AddItem snapshots the product's current price onto the cart line. A
// product already present gains quantity instead of a duplicate entry,
// and its earlier price snapshot is kept.
func (s *service) AddItem(ctx context.Context, userID, productID string) (*CartDTO, error) {
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing := findItem(cart, productID); existing != nil {
		existing.Quantity++
		return s.save(ctx, cart)
	}

	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, err
		}
		return nil, storeFailure(err, "load product")
	}
	if product.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price is not a valid amount")
	}

	cart.Items = append(cart.Items, documents.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  1,
	})
	return s.save(ctx, cart)
}

// SetQuantity replaces the line's quantity. Anything below 1 removes
// the line entirely.
func (s *service) SetQuantity(ctx context.Context, userID, productID string, quantity int64) (*CartDTO, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := findItem(cart, productID)
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	item.Quantity = quantity
	return s.save(ctx, cart)
}

// RemoveItem filters out the matching line. Absence is not an error.
func (s *service) RemoveItem(ctx context.Context, userID, productID string) (*CartDTO, error) {
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return s.save(ctx, cart)
}

// Clear destroys the persisted cart record. A user with no record is
// already clear.
func (s *service) Clear(ctx context.Context, userID string) error {
	err := s.repo.Delete(ctx, userID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return storeFailure(err, "clear cart")
	}
	return nil
}

// Snapshot returns the current item set and a freshly computed total
// for transfer onto a new order at checkout.
func (s *service) Snapshot(ctx context.Context, userID string) ([]documents.CartItem, types.Money, error) {
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, types.Money{}, err
	}
	return cart.Items, computeTotal(cart.Items), nil
}

func (s *service) loadOrEmpty(ctx context.Context, userID string) (*documents.Cart, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cart, err := s.repo.Find(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return &documents.Cart{ID: userID}, nil
	}
	if err != nil {
		return nil, storeFailure(err, "load cart")
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, cart *documents.Cart) (*CartDTO, error) {
	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, storeFailure(err, "save cart")
	}
	return toDTO(cart), nil
}

func findItem(cart *documents.Cart, productID string) *documents.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

// computeTotal sums price x quantity across the item set. It runs
// fresh on every read so incremental mutations cannot drift the total.
func computeTotal(items []documents.CartItem) types.Money {
	total := types.MoneyFromInt(0)
	for _, item := range items {
		total = total.Add(item.Price.MulInt(item.Quantity))
	}
	return total
}

func toDTO(cart *documents.Cart) *CartDTO {
	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Subtotal:  item.Price.MulInt(item.Quantity),
		})
	}
	return &CartDTO{
		Items: items,
		Total: computeTotal(cart.Items),
	}
}

func storeFailure(err error, action string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store: "+action)
}
