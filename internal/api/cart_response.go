package api

import "evolv-store/internal/model"

// swagger:model api.CartData
type CartData struct {
	Items     []model.CartLine `json:"items"`
	Total     float64          `json:"total" example:"79.80"`
	ItemCount int              `json:"item_count" example:"2"`
}
