package orders

import (
	"time"

	"storefront/pkg/mongodb/documents"
	"storefront/pkg/types"
)

// OrderItemDTO is one purchased line as rendered to clients.
type OrderItemDTO struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Image     string      `json:"image,omitempty"`
	Quantity  int64       `json:"quantity"`
}

// OrderDTO is the API shape of an order. Cancellable reflects the
// policy decision at render time; the write path re-checks it.
type OrderDTO struct {
	ID                    string         `json:"id"`
	UserID                string         `json:"user_id"`
	Items                 []OrderItemDTO `json:"items"`
	Total                 types.Money    `json:"total"`
	Status                string         `json:"status"`
	PaymentMethod         string         `json:"payment_method"`
	PaymentStatus         string         `json:"payment_status"`
	Address               types.Address  `json:"address"`
	EstimatedDeliveryDate *time.Time     `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time     `json:"actual_delivery_date,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	Cancellable           bool           `json:"cancellable"`
	CancelDeadline        time.Time      `json:"cancel_deadline"`
}

func (s *service) toDTO(order *documents.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}

	return &OrderDTO{
		ID:                    order.ID,
		UserID:                order.UserID,
		Items:                 items,
		Total:                 order.Total,
		Status:                order.Status,
		PaymentMethod:         order.PaymentMethod,
		PaymentStatus:         order.PaymentStatus,
		Address:               order.Address,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		ActualDeliveryDate:    order.ActualDeliveryDate,
		CreatedAt:             order.CreatedAt,
		Cancellable:           s.policy.Cancellable(order, order.UserID, s.now()),
		CancelDeadline:        s.policy.CancelDeadline(order.CreatedAt),
	}
}
