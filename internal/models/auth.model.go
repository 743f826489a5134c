package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TemporaryLoginRequest struct {
	Token string `json:"token"`
}

type GenerateTemporaryRequest struct {
	Username       string `json:"username"`
	ExpiresInHours int    `json:"expiresInHours"`
}

// AuthResult is the upstream auth response shape, shared by the admin login
// and temporary-token redemption endpoints.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
