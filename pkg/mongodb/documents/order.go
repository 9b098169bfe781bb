package documents

import (
	"time"

	"storefront/pkg/types"
)

// OrderItem is a purchased line frozen at checkout time.
type OrderItem struct {
	ProductID string      `bson:"product_id"`
	Name      string      `bson:"name"`
	Price     types.Money `bson:"price"`
	Image     string      `bson:"image,omitempty"`
	Quantity  int64       `bson:"quantity"`
}

// Order is a placed order. Status is free-form at the storage layer;
// the orders service owns the lifecycle vocabulary.
type Order struct {
	ID                    string        `bson:"_id"`
	UserID                string        `bson:"user_id"`
	Items                 []OrderItem   `bson:"items"`
	Total                 types.Money   `bson:"total"`
	Status                string        `bson:"status"`
	PaymentMethod         string        `bson:"payment_method"`
	PaymentStatus         string        `bson:"payment_status"`
	Address               types.Address `bson:"address"`
	EstimatedDeliveryDate *time.Time    `bson:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time    `bson:"actual_delivery_date,omitempty"`
	CreatedAt             time.Time     `bson:"created_at"`
	UpdatedAt             time.Time     `bson:"updated_at"`
}
