package model

import (
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. OwnerID is set once at creation.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	OwnerID     string          `json:"ownerId"`
}

// IsOwnedBy reports whether userID created the product.
func (p Product) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}
