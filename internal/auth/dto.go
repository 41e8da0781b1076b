package auth

import "github.com/stickerdash/stickerdash-backend/internal/users"

// ProviderIdentity is what the OAuth callback learns about the signed-in
// account. Subject is the provider's stable user id.
type ProviderIdentity struct {
	Subject string  `json:"subject" validate:"required,max=256"`
	Name    string  `json:"name" validate:"required,max=256"`
	Email   string  `json:"email" validate:"required,email"`
	Image   *string `json:"image,omitempty" validate:"omitempty,url"`
}

// SessionTokens is returned whenever a session is issued or rotated.
type SessionTokens struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// SessionUser is the minimal identity exposed to clients.
type SessionUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionView is the body of GET /auth/session.
type SessionView struct {
	User SessionUser `json:"user"`
}
