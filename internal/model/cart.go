package model

import "time"

type CartItem struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ProductID int       `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartLine is a cart item joined with the product fields the storefront
// needs to render it.
type CartLine struct {
	ID       int         `json:"id"`
	Quantity int         `json:"quantity"`
	Product  CartProduct `json:"product"`
}

type CartProduct struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ImageURL      *string `json:"image_url"`
	StockQuantity int     `json:"stock_quantity"`
}
