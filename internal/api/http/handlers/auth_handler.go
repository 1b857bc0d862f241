package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// AuthHandler exposes the bearer-token auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"data": fiber.Map{
			"user":         dto.NewUserResponse(user),
			"access_token": token.Token,
			"token_type":   "Bearer",
			"expires_in":   dto.NewTokenResponse(token).ExpiresIn,
		},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"user":         dto.NewUserResponse(user),
			"access_token": token.Token,
			"token_type":   "Bearer",
			"expires_in":   dto.NewTokenResponse(token).ExpiresIn,
		},
	})
}

// Logout handles POST /api/auth/logout. The token is revoked without prior
// validation, so a second logout with the same token also succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenStr, err := auth.BearerFromHeader(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), tokenStr); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully logged out",
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	tokenStr, err := auth.BearerFromHeader(c)
	if err != nil {
		return err
	}
	token, err := h.auth.Refresh(c.UserContext(), tokenStr)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token refreshed successfully",
		"data": fiber.Map{
			"access_token": token.Token,
			"token_type":   "Bearer",
			"expires_in":   dto.NewTokenResponse(token).ExpiresIn,
		},
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user": dto.NewUserResponse(principal.User),
		},
	})
}
