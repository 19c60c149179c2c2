// Package dto holds the request and response shapes of the HTTP surface.
package dto

// LoginRequest carries the credentials of the login flow.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=128"`
	Password string `json:"password" binding:"required,min=1"`
}

// RefreshRequest carries the opaque refresh credential to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,min=1"`
}

// LogoutRequest optionally names the refresh credential to retire along
// with the access token. The access token itself comes from the
// Authorization header.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPairResponse is the issuance and refresh response shape.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	IssuedAt     int64  `json:"issued_at"`
}

// ProfileResponse echoes the authenticated principal.
type ProfileResponse struct {
	Subject     string   `json:"subject"`
	Authorities []string `json:"authorities"`
}

// ErrorResponse is the uniform rejection body. The boundary never reveals
// which internal check failed.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
