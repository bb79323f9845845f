package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID              int         `db:"id" json:"id"`
	UserID          int         `db:"user_id" json:"user_id"`
	TotalAmount     float64     `db:"total_amount" json:"total_amount"`
	Status          OrderStatus `db:"status" json:"status"`
	ShippingAddress string      `db:"shipping_address" json:"shipping_address"`
	PaymentMethod   string      `db:"payment_method" json:"payment_method"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
	Items           []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem snapshots the product price at purchase time; rows are
// immutable once the order is created.
type OrderItem struct {
	ID               int     `db:"id" json:"id"`
	OrderID          int     `db:"order_id" json:"order_id"`
	ProductID        int     `db:"product_id" json:"product_id"`
	Quantity         int     `db:"quantity" json:"quantity"`
	UnitPrice        float64 `db:"unit_price" json:"unit_price"`
	ProductName      string  `db:"-" json:"product_name,omitempty"`
	ProductImageURL  *string `db:"-" json:"product_image_url,omitempty"`
}
