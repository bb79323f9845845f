package api

// swagger:model api.UpdateProfileRequest
type UpdateProfileRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100" example:"Alice"`
	FitnessGoals *string `json:"fitness_goals" validate:"omitempty,max=500" example:"cutting"`
}
