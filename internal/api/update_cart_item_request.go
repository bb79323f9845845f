package api

// swagger:model api.UpdateCartItemRequest
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0" example:"2"`
}
