package model

import "time"

type Product struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   *string   `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	Category      string    `db:"category" json:"category"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	ImageURL      *string   `db:"image_url" json:"image_url"`
	Ingredients   *string   `db:"ingredients" json:"ingredients"`
	Benefits      []string  `db:"benefits" json:"benefits"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
