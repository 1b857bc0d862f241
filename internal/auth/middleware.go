package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

const (
	principalKey = "auth_principal"
	adminUserKey = "admin_user"
	adminSessKey = "admin_session"
)

// Principal represents the authenticated API caller.
type Principal struct {
	User  *domain.User
	Token *domain.Token
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	issuer *Issuer
	users  repository.UserRepository
}

// NewMiddleware constructs bearer-token middleware.
func NewMiddleware(issuer *Issuer, users repository.UserRepository) *Middleware {
	return &Middleware{issuer: issuer, users: users}
}

// Handle enforces bearer authentication for protected API routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr, err := BearerFromHeader(c)
	if err != nil {
		return err
	}

	token, err := m.issuer.Validate(c.UserContext(), tokenStr)
	if err != nil {
		return err
	}

	user, err := m.users.GetByID(c.UserContext(), token.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidToken()
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Token: token})
	return c.Next()
}

// BearerFromHeader extracts the bearer token without validating it. Logout
// and refresh use this directly: both must accept tokens the validator
// would reject.
func BearerFromHeader(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}

// PrincipalFromContext retrieves the authenticated API caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAdmin ensures the bearer principal carries the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized(http.StatusText(http.StatusUnauthorized))
		}
		if !principal.User.IsAdmin {
			return apperrors.NewNotAuthorized("admin privileges required")
		}
		return c.Next()
	}
}

// SessionMiddleware authenticates admin web routes through the cookie
// session guard. Unauthenticated requests are redirected to the login form
// rather than answered with JSON.
type SessionMiddleware struct {
	guard      *SessionGuard
	cookieName string
}

// NewSessionMiddleware constructs session middleware.
func NewSessionMiddleware(guard *SessionGuard, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{guard: guard, cookieName: cookieName}
}

// Handle loads the admin behind the session cookie.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	user, session, err := m.guard.Authenticate(c.UserContext(), c.Cookies(m.cookieName))
	if err != nil {
		return c.Redirect("/admin/login", fiber.StatusSeeOther)
	}
	c.Locals(adminUserKey, user)
	c.Locals(adminSessKey, session)
	return c.Next()
}

// AdminFromContext retrieves the authenticated admin and their session.
func AdminFromContext(c *fiber.Ctx) (*domain.User, *Session, bool) {
	user, okUser := c.Locals(adminUserKey).(*domain.User)
	session, okSess := c.Locals(adminSessKey).(*Session)
	return user, session, okUser && okSess
}
