package model

import "skullcart/internal/money"

// Product is what the storefront sends when an add-to-cart button is
// pressed: the product's identity and display metadata, no quantity.
type Product struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"price"`
	ImageRef  string      `json:"image"`
}

// Validate checks the product payload before it enters the cart.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrMissingProductID
	}
	if p.UnitPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// LineItem is one product entry in the cart. There is at most one line
// item per product ID; repeated adds increment Quantity instead.
//
// The JSON tags define the persisted storage shape and must stay
// compatible with carts written by earlier versions of the storefront.
type LineItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"price"`
	ImageRef  string      `json:"image"`
	Quantity  int         `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (li LineItem) LineTotal() money.Cents {
	return li.UnitPrice * money.Cents(li.Quantity)
}
