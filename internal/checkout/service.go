package checkout

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/orders"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

// ErrEmptyCart rejects a checkout with nothing in the cart.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")

// CartReader is the slice of the cart service checkout consumes.
type CartReader interface {
	Snapshot(ctx context.Context, userID string) ([]documents.CartItem, types.Money, error)
	Clear(ctx context.Context, userID string) error
}

// OrderPlacer is the slice of the order service checkout consumes.
type OrderPlacer interface {
	Place(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error)
}

// Input is the checkout payload. Payment method and status are
// free-text passthroughs from the chosen payment flow; the gateway
// itself is a black box that already reported success.
type Input struct {
	PaymentMethod string
	PaymentStatus string
	Address       types.Address
}

// Service turns the current cart into a placed order.
type Service interface {
	Checkout(ctx context.Context, userID string, input Input) (*orders.OrderDTO, error)
}

type service struct {
	carts  CartReader
	orders OrderPlacer
}

// NewService constructs a checkout service instance.
func NewService(carts CartReader, orderSvc OrderPlacer) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order placer required")
	}
	return &service{carts: carts, orders: orderSvc}, nil
}

// Checkout freezes the cart's item set and freshly computed total onto
// a new order, then destroys the cart record. The order's total is
// captured here and never recomputed, even if catalog prices change.
func (s *service) Checkout(ctx context.Context, userID string, input Input) (*orders.OrderDTO, error) {
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method required")
	}

	items, total, err := s.carts.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]documents.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, documents.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}

	status := strings.TrimSpace(input.PaymentStatus)
	if status == "" {
		status = "completed"
	}

	placed, err := s.orders.Place(ctx, orders.PlaceOrderInput{
		UserID:        userID,
		Items:         orderItems,
		Total:         total,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		PaymentStatus: status,
		Address:       input.Address,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return placed, nil
}
