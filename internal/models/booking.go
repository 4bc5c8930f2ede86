package models

import "time"

// Product is the local sellable representation of an upstream service,
// keyed by SKU so repeated bookings of the same service reuse one row.
type Product struct {
	ID        string    `db:"id" json:"id"`
	SKU       string    `db:"sku" json:"sku"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Virtual   bool      `db:"virtual" json:"virtual"`
	Hidden    bool      `db:"hidden" json:"hidden"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartItem is one confirmed booking attached to a product, carrying the
// appointment metadata through to checkout.
type CartItem struct {
	ID        string    `db:"id" json:"id"`
	CartKey   string    `db:"cart_key" json:"cart_key"`
	ProductID string    `db:"product_id" json:"product_id"`
	ServiceID string    `db:"service_id" json:"service_id"`
	Therapist string    `db:"therapist" json:"therapist,omitempty"`
	ApptDate  string    `db:"appt_date" json:"appt_date,omitempty"`
	ApptTime  string    `db:"appt_time" json:"appt_time,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
