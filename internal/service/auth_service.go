package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/config"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// AuthService orchestrates registration, login, logout, refresh and
// identity-lookup flows for the bearer-token API path.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.Issuer
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	TokenRepo  repository.TokenRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		issuer:     auth.NewIssuer(deps.TokenRepo, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a customer account and issues its first token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Token, error) {
	if details := validateRegistration(input); len(details) > 0 {
		return nil, nil, apperrors.NewValidationError(details)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperrors.NewValidationError(map[string]any{
			"email": "The email has already been taken.",
		})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			// lost a race with a concurrent registration for the same email
			return nil, nil, apperrors.NewValidationError(map[string]any{
				"email": "The email has already been taken.",
			})
		}
		return nil, nil, err
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventUserRegistered,
			SubjectID: user.ID,
			Payload:   events.UserRegisteredPayload{Name: user.Name, Email: user.Email},
		})
	}
	return user, token, nil
}

// Login authenticates a user and issues a fresh token. Unknown email and
// wrong password collapse to the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Token, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Logout revokes the presented token. Always succeeds from the caller's
// perspective, including for tokens that are already dead.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	return s.issuer.Revoke(ctx, tokenStr)
}

// Refresh trades a live token for a replacement.
func (s *AuthService) Refresh(ctx context.Context, tokenStr string) (*domain.Token, error) {
	return s.issuer.Refresh(ctx, tokenStr)
}

// Me resolves a token to the user behind it.
func (s *AuthService) Me(ctx context.Context, tokenStr string) (*domain.User, error) {
	token, err := s.issuer.Validate(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, err
	}
	return user, nil
}

// Issuer exposes the underlying token issuer for middleware usage.
func (s *AuthService) Issuer() *auth.Issuer {
	return s.issuer
}

func validateRegistration(input RegisterInput) map[string]any {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "The name field is required."
	}
	if !emailPattern.MatchString(input.Email) {
		details["email"] = "The email must be a valid email address."
	}
	if msg := passwordPolicyViolation(input.Password); msg != "" {
		details["password"] = msg
	} else if input.Password != input.PasswordConfirmation {
		details["password"] = "The password confirmation does not match."
	}
	return details
}

// passwordPolicyViolation enforces minimum length and mixed character
// classes. Returns an empty string for acceptable passwords.
func passwordPolicyViolation(password string) string {
	if len(password) < minPasswordLength {
		return "The password must be at least 8 characters."
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return "The password must contain upper case, lower case and numeric characters."
	}
	return ""
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
