package api

import "evolv-store/internal/model"

// swagger:model api.Pagination
type Pagination struct {
	CurrentPage     int `json:"current_page" example:"1"`
	TotalPages      int `json:"total_pages" example:"5"`
	TotalProducts   int `json:"total_products" example:"57"`
	ProductsPerPage int `json:"products_per_page" example:"12"`
}

// swagger:model api.ProductPage
type ProductPage struct {
	Products   []model.Product `json:"products"`
	Pagination Pagination      `json:"pagination"`
}
