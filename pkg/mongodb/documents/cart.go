package documents

import (
	"time"

	"storefront/pkg/types"
)

// CartItem is one product entry inside a cart, keyed by product id.
// Price is the snapshot taken when the item was added.
type CartItem struct {
	ProductID string      `bson:"product_id"`
	Name      string      `bson:"name"`
	Price     types.Money `bson:"price"`
	Image     string      `bson:"image,omitempty"`
	Quantity  int64       `bson:"quantity"`
}

// Cart is the per-user cart record. The document id is the owning
// user's id, so each user has at most one cart.
type Cart struct {
	ID        string     `bson:"_id"`
	Items     []CartItem `bson:"items"`
	UpdatedAt time.Time  `bson:"updated_at"`
}
