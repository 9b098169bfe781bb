package documents

import (
	"time"

	"storefront/pkg/types"
)

// Product is a catalog entry. Price survives legacy string encodings
// through types.Money coercion.
type Product struct {
	ID          string      `bson:"_id"`
	Name        string      `bson:"name"`
	Description string      `bson:"description,omitempty"`
	Price       types.Money `bson:"price"`
	CategoryID  string      `bson:"category_id"`
	Image       string      `bson:"image,omitempty"`
	Rating      float64     `bson:"rating,omitempty"`
	Discount    float64     `bson:"discount,omitempty"`
	CreatedAt   time.Time   `bson:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at"`
}

// Category groups products for storefront browsing.
type Category struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Image       string    `bson:"image,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}
