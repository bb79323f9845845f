package api

// swagger:model api.AddCartItemRequest
type AddCartItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0" example:"3"`
	Quantity  int `json:"quantity" validate:"omitempty,gt=0" example:"1"`
}
