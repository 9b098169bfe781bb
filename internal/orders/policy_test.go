package orders

import (
	"errors"
	"testing"
	"time"

	"storefront/pkg/config"
	"storefront/pkg/mongodb/documents"
)

func testPolicy() Policy {
	return NewPolicy(config.OrdersConfig{CancelWindow: 3 * time.Minute})
}

func orderAt(createdAt time.Time, owner string, status Status) *documents.Order {
	return &documents.Order{
		ID:        "order-1",
		UserID:    owner,
		Status:    string(status),
		CreatedAt: createdAt,
	}
}

func TestAuthorizeCancelWithinWindow(t *testing.T) {
	policy := testPolicy()
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	order := orderAt(t0, "user-1", StatusProcessing)

	if err := policy.AuthorizeCancel(order, "user-1", t0.Add(time.Second)); err != nil {
		t.Fatalf("expected cancellation allowed, got %v", err)
	}
	if err := policy.AuthorizeCancel(order, "user-1", t0.Add(170*time.Second)); err != nil {
		t.Fatalf("expected cancellation allowed near the deadline, got %v", err)
	}
}

func TestAuthorizeCancelWindowExpired(t *testing.T) {
	policy := testPolicy()
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// Exactly at the threshold the window is already closed.
	order := orderAt(t0, "user-1", StatusProcessing)
	if err := policy.AuthorizeCancel(order, "user-1", t0.Add(180*time.Second)); !errors.Is(err, ErrWindowExpired) {
		t.Fatalf("expected ErrWindowExpired at the threshold, got %v", err)
	}
	if err := policy.AuthorizeCancel(order, "user-1", t0.Add(190*time.Second)); !errors.Is(err, ErrWindowExpired) {
		t.Fatalf("expected ErrWindowExpired past the threshold, got %v", err)
	}

	// The expired window wins regardless of status.
	shipped := orderAt(t0, "user-1", StatusShipped)
	if err := policy.AuthorizeCancel(shipped, "user-1", t0.Add(200*time.Second)); !errors.Is(err, ErrWindowExpired) {
		t.Fatalf("expected ErrWindowExpired for shipped order, got %v", err)
	}
}

func TestAuthorizeCancelInvalidState(t *testing.T) {
	policy := testPolicy()
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, status := range []Status{StatusShipped, StatusDelivered, StatusCancelled} {
		order := orderAt(t0, "user-1", status)
		err := policy.AuthorizeCancel(order, "user-1", t0.Add(time.Minute))
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("status %s: expected ErrInvalidState, got %v", status, err)
		}
	}
}

func TestAuthorizeCancelNotOwner(t *testing.T) {
	policy := testPolicy()
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	order := orderAt(t0, "user-1", StatusProcessing)

	if err := policy.AuthorizeCancel(order, "user-2", t0.Add(time.Second)); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestRejectionsAreDistinct(t *testing.T) {
	if errors.Is(ErrNotOwner, ErrInvalidState) || errors.Is(ErrInvalidState, ErrWindowExpired) || errors.Is(ErrWindowExpired, ErrNotOwner) {
		t.Fatal("rejection reasons must be distinguishable")
	}
}

func TestCancelDeadlineAndRemaining(t *testing.T) {
	policy := testPolicy()
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	if got := policy.CancelDeadline(t0); !got.Equal(t0.Add(3 * time.Minute)) {
		t.Fatalf("unexpected deadline %v", got)
	}
	if got := policy.CancelRemaining(t0, t0.Add(170*time.Second)); got != 10*time.Second {
		t.Fatalf("expected 10s remaining, got %v", got)
	}
}

func TestStatusPartition(t *testing.T) {
	if StatusProcessing.InHistory() || StatusShipped.InHistory() {
		t.Fatal("processing and shipped orders are active")
	}
	if !StatusDelivered.InHistory() || !StatusCancelled.InHistory() {
		t.Fatal("delivered and cancelled orders belong in history")
	}
	if Status("refunded").IsValid() {
		t.Fatal("unknown status must not validate")
	}
}

func TestMergeTimeOfDayPreservesDate(t *testing.T) {
	base := time.Date(2024, 6, 1, 9, 15, 42, 0, time.UTC)

	merged, err := MergeTimeOfDay(base, "14:30")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	if !merged.Equal(want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}

	if _, err := MergeTimeOfDay(base, "25:00"); err == nil {
		t.Fatal("expected error for invalid clock value")
	}
	if _, err := MergeTimeOfDay(base, "2pm"); err == nil {
		t.Fatal("expected error for unparseable clock value")
	}
}
