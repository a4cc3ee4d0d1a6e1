package models

import "encoding/json"

// LoginResponse is what the identity provider hands back after a password grant.
// User is passed through untouched so the frontend sees the provider's own shape.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	TokenType    string          `json:"token_type,omitempty"`
	ExpiresIn    int             `json:"expires_in,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         json.RawMessage `json:"user"`
}
