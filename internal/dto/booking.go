package dto

// ConfirmBookingRequest carries a confirmed appointment selection into the
// cart. ServiceID, ServiceName and a positive Price are mandatory; the
// appointment details are metadata.
type ConfirmBookingRequest struct {
	ServiceID   string  `json:"service_id" validate:"required"`
	ServiceName string  `json:"service_name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Therapist   string  `json:"therapist"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	CartKey     string  `json:"cart_key"`
}

// ConfirmBookingResponse identifies the cart entry created for a booking.
type ConfirmBookingResponse struct {
	CartKey    string  `json:"cart_key"`
	CartItemID string  `json:"cart_item_id"`
	ProductID  string  `json:"product_id"`
	Price      float64 `json:"price"`
}
