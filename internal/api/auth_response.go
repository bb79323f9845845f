package api

import "evolv-store/internal/model"

// AuthData is the payload returned by register and login: the user record
// (password hash excluded by the model's json tags) plus a bearer token.
// swagger:model api.AuthData
type AuthData struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}
