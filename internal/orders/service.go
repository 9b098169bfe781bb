package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/pkg/config"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

// ErrOrderNotFound is returned when the addressed order does not exist.
var ErrOrderNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "order not found")

// View selects which partition of a customer's orders to list.
type View string

const (
	ViewActive  View = "active"
	ViewHistory View = "history"
	ViewAll     View = "all"
)

// ParseView interprets the ?view query value. Empty means all.
func ParseView(raw string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewActive:
		return ViewActive, nil
	case ViewHistory:
		return ViewHistory, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown view %q", raw))
}

// Repository is the order storage surface the service depends on.
type Repository interface {
	Insert(ctx context.Context, order *documents.Order) error
	FindByID(ctx context.Context, id string) (*documents.Order, error)
	ListByUser(ctx context.Context, userID string) ([]documents.Order, error)
	ListAll(ctx context.Context) ([]documents.Order, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// PlaceOrderInput is the frozen result of a checkout.
type PlaceOrderInput struct {
	UserID        string
	Items         []documents.OrderItem
	Total         types.Money
	PaymentMethod string
	PaymentStatus string
	Address       types.Address
}

// EstimatedDeliveryInput carries either a full timestamp or a
// time-of-day to merge onto the existing estimated date.
type EstimatedDeliveryInput struct {
	At        *time.Time
	TimeOfDay *string
}

// Service exposes the order lifecycle operations for both the customer
// and admin surfaces.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID string, view View) ([]OrderDTO, error)
	GetForUser(ctx context.Context, userID, orderID string) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID string) (*OrderDTO, error)

	ListAll(ctx context.Context) ([]OrderDTO, error)
	SetStatus(ctx context.Context, orderID string, status Status) (*OrderDTO, error)
	SetEstimatedDelivery(ctx context.Context, orderID string, input EstimatedDeliveryInput) (*OrderDTO, error)
	Delete(ctx context.Context, orderID string) error

	Subscribe(filter Filter) (<-chan Event, func())
	Render(order *documents.Order) *OrderDTO
}

type service struct {
	repo        Repository
	policy      Policy
	feed        *Feed
	deliveryLag time.Duration
	now         func() time.Time
}

// NewService constructs the order service.
func NewService(repo Repository, cfg config.OrdersConfig, feed *Feed) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if feed == nil {
		return nil, fmt.Errorf("order feed required")
	}
	lag := cfg.EstimatedDeliveryLag
	if lag <= 0 {
		lag = 7 * 24 * time.Hour
	}
	return &service{
		repo:        repo,
		policy:      NewPolicy(cfg),
		feed:        feed,
		deliveryLag: lag,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Place persists a new order in the processing state. The total and
// line items arrive frozen from checkout and are never recomputed.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if input.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}

	now := s.now()
	estimated := now.Add(s.deliveryLag)
	order := &documents.Order{
		ID:                    uuid.NewString(),
		UserID:                input.UserID,
		Items:                 input.Items,
		Total:                 input.Total,
		Status:                string(StatusProcessing),
		PaymentMethod:         input.PaymentMethod,
		PaymentStatus:         input.PaymentStatus,
		Address:               input.Address,
		EstimatedDeliveryDate: &estimated,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, storeFailure(err, "insert order")
	}

	s.publish(EventCreated, order)
	return s.toDTO(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID string, view View) ([]OrderDTO, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeFailure(err, "list orders")
	}

	out := make([]OrderDTO, 0, len(docs))
	for i := range docs {
		order := &docs[i]
		inHistory := Status(order.Status).InHistory()
		if view == ViewActive && inHistory {
			continue
		}
		if view == ViewHistory && !inHistory {
			continue
		}
		out = append(out, *s.toDTO(order))
	}
	return out, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID string) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.toDTO(order), nil
}

// Cancel applies the customer cancellation policy and flips the order
// to cancelled. The policy is re-evaluated here even though the caller
// already saw a cancellable order, because the window may have closed
// between render and click.
func (s *service) Cancel(ctx context.Context, userID, orderID string) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.AuthorizeCancel(order, userID, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, orderID, bson.M{"status": string(StatusCancelled)}); err != nil {
		return nil, storeFailure(err, "cancel order")
	}

	order.Status = string(StatusCancelled)
	s.publish(EventUpdated, order)
	return s.toDTO(order), nil
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, storeFailure(err, "list all orders")
	}
	out := make([]OrderDTO, 0, len(docs))
	for i := range docs {
		out = append(out, *s.toDTO(&docs[i]))
	}
	return out, nil
}

// SetStatus persists any of the four statuses with no precondition on
// the current one. It does not cascade into actual_delivery_date when
// the new status is delivered.
func (s *service) SetStatus(ctx context.Context, orderID string, status Status) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", status))
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, orderID, bson.M{"status": string(status)}); err != nil {
		return nil, storeFailure(err, "set order status")
	}

	order.Status = string(status)
	s.publish(EventUpdated, order)
	return s.toDTO(order), nil
}

// SetEstimatedDelivery replaces the estimate outright when given a full
// timestamp, or merges a time-of-day onto the existing estimated date.
// The new value is deliberately unconstrained relative to created_at.
func (s *service) SetEstimatedDelivery(ctx context.Context, orderID string, input EstimatedDeliveryInput) (*OrderDTO, error) {
	if input.At == nil && input.TimeOfDay == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated delivery requires a timestamp or a time of day")
	}
	if input.At != nil && input.TimeOfDay != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provide either a timestamp or a time of day, not both")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var next time.Time
	if input.At != nil {
		next = input.At.UTC()
	} else {
		base := order.CreatedAt.Add(s.deliveryLag)
		if order.EstimatedDeliveryDate != nil {
			base = *order.EstimatedDeliveryDate
		}
		next, err = MergeTimeOfDay(base, *input.TimeOfDay)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateFields(ctx, orderID, bson.M{"estimated_delivery_date": next}); err != nil {
		return nil, storeFailure(err, "set estimated delivery")
	}

	order.EstimatedDeliveryDate = &next
	s.publish(EventUpdated, order)
	return s.toDTO(order), nil
}

// Delete removes the order record permanently. There is no soft-delete
// or archival state.
func (s *service) Delete(ctx context.Context, orderID string) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, orderID); err != nil {
		return storeFailure(err, "delete order")
	}

	s.feed.Publish(Event{
		Type:    EventDeleted,
		OrderID: order.ID,
		UserID:  order.UserID,
		At:      s.now(),
	})
	return nil
}

func (s *service) Subscribe(filter Filter) (<-chan Event, func()) {
	return s.feed.Subscribe(filter)
}

// Render converts a stored order into its API shape, evaluating the
// cancellation policy at the current instant.
func (s *service) Render(order *documents.Order) *OrderDTO {
	return s.toDTO(order)
}

func (s *service) load(ctx context.Context, orderID string) (*documents.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, storeFailure(err, "load order")
	}
	return order, nil
}

func (s *service) publish(eventType EventType, order *documents.Order) {
	snapshot := *order
	s.feed.Publish(Event{
		Type:    eventType,
		OrderID: order.ID,
		UserID:  order.UserID,
		Order:   &snapshot,
		At:      s.now(),
	})
}

func storeFailure(err error, action string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store: "+action)
}
