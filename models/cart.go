package models

import "github.com/shopspring/decimal"

// CartItem snapshots name and price at add time; later catalog edits do not
// reprice lines already in a cart.
type CartItem struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"productId"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       decimal.Decimal `json:"quantity"`
	SelectedOption string          `json:"selectedOption,omitempty"`
}

type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Price.Mul(item.Quantity))
	}
	return subtotal
}
