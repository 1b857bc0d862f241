package dto

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public profile shape. The password hash never appears
// here.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user to its public shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// TokenResponse is the bearer-token grant shape.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// NewTokenResponse maps a domain token to the grant shape. ExpiresIn is
// seconds until expiry.
func NewTokenResponse(token *domain.Token) TokenResponse {
	expiresIn := int64(time.Until(token.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return TokenResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}
}
