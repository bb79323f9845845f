package api

// swagger:model api.UpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled" example:"shipped"`
}
