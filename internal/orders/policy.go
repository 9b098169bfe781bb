package orders

import (
	"fmt"
	"time"

	"storefront/pkg/config"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
)

// Status is the order lifecycle vocabulary. Orders are created as
// StatusProcessing.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// InHistory reports whether an order with this status belongs in the
// customer's history partition. Everything else counts as active.
func (s Status) InHistory() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Rejection reasons for customer cancellation. Each is distinct and
// none is retriable.
var (
	ErrNotOwner      = pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	ErrWindowExpired = pkgerrors.New(pkgerrors.CodeWindowExpired, "cancellation window has closed")
	ErrInvalidState  = pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in a cancellable state")
)

// Policy gates which transitions and field mutations are permitted on
// an order, regardless of which surface initiates them.
type Policy struct {
	cancelWindow time.Duration
}

func NewPolicy(cfg config.OrdersConfig) Policy {
	window := cfg.CancelWindow
	if window <= 0 {
		window = 3 * time.Minute
	}
	return Policy{cancelWindow: window}
}

// CancelDeadline returns the instant after which cancellation is
// permanently closed for an order created at createdAt.
func (p Policy) CancelDeadline(createdAt time.Time) time.Time {
	return createdAt.Add(p.cancelWindow)
}

// CancelRemaining returns how much of the window is left at now.
// Zero or negative means the window has closed.
func (p Policy) CancelRemaining(createdAt, now time.Time) time.Duration {
	return p.cancelWindow - now.Sub(createdAt)
}

// AuthorizeCancel decides whether actorID may cancel the order at now.
// The window check precedes the status check: a late attempt is
// reported as expired regardless of the order's current status. The
// same decision runs when the action is offered and again at the
// moment of the write, since wall-clock time passes in between.
func (p Policy) AuthorizeCancel(order *documents.Order, actorID string, now time.Time) error {
	if order.UserID != actorID {
		return ErrNotOwner
	}
	if p.CancelRemaining(order.CreatedAt, now) <= 0 {
		return ErrWindowExpired
	}
	if Status(order.Status) != StatusProcessing {
		return ErrInvalidState
	}
	return nil
}

// Cancellable is the render-time form of AuthorizeCancel.
func (p Policy) Cancellable(order *documents.Order, actorID string, now time.Time) bool {
	return p.AuthorizeCancel(order, actorID, now) == nil
}

// MergeTimeOfDay applies an "HH:MM" clock value onto base, preserving
// base's date and location.
func MergeTimeOfDay(base time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid time of day %q, expected HH:MM", clock))
	}
	return time.Date(
		base.Year(), base.Month(), base.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		base.Location(),
	), nil
}
