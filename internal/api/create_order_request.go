package api

// swagger:model api.OrderItemRequest
type OrderItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0" example:"3"`
	Quantity  int `json:"quantity" validate:"required,gt=0" example:"2"`
}

// swagger:model api.CreateOrderRequest
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required,min=10,max=500"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=credit_card debit_card pix boleto"`
}
