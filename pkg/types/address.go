package types

import "strings"

// Address is the delivery address captured on an order at checkout.
// It is immutable once the order exists.
type Address struct {
	FullName    string `json:"full_name,omitempty" bson:"full_name,omitempty"`
	Street      string `json:"street" bson:"street" validate:"required"`
	City        string `json:"city" bson:"city" validate:"required"`
	State       string `json:"state" bson:"state" validate:"required"`
	ZipCode     string `json:"zip_code" bson:"zip_code" validate:"required"`
	Country     string `json:"country" bson:"country" validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// OneLine renders the address the way order summaries display it.
func (a Address) OneLine() string {
	parts := []string{a.Street, a.City, a.State + " " + a.ZipCode, a.Country}
	return strings.Join(parts, ", ")
}
