package api

// swagger:model api.CreateProductRequest
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=200" example:"Whey Protein 900g"`
	Description   *string  `json:"description" validate:"omitempty,max=1000"`
	Price         *float64 `json:"price" validate:"required,gte=0" example:"39.90"`
	Category      string   `json:"category" validate:"required,max=100" example:"protein"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0" example:"100"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	Ingredients   *string  `json:"ingredients" validate:"omitempty,max=500"`
	Benefits      []string `json:"benefits" validate:"omitempty,dive,max=200"`
}
