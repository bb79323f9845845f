package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100" example:"Alice"`
	Email        string  `json:"email" validate:"required,email" example:"alice@example.com"`
	Password     string  `json:"password" validate:"required,min=6" example:"Secret123!"`
	FitnessGoals *string `json:"fitness_goals" validate:"omitempty,max=500" example:"hypertrophy"`
}
