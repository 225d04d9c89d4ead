package domain

import "strings"

// OrderCustomer is the slice of a Shopify order-created payload the match
// engine cares about.
type OrderCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
}

// OrderEvent is an order-created webhook payload, reduced to the fields the
// engine consumes. Signature verification happens upstream.
type OrderEvent struct {
	OrderID    string        `json:"order_id"`
	ShopDomain string        `json:"shop_domain"`
	Customer   OrderCustomer `json:"customer"`
}

// CustomerName joins the customer's name parts into the display name used as
// the match query.
func (e *OrderEvent) CustomerName() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(e.Customer.FirstName); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(e.Customer.LastName); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
