package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

const tokenBytes = 32

// Issuer mints and validates opaque bearer tokens. Tokens live in the token
// store so revocation takes effect immediately.
type Issuer struct {
	tokens repository.TokenRepository
	ttl    time.Duration
}

// NewIssuer builds a new issuer.
func NewIssuer(tokens repository.TokenRepository, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{tokens: tokens, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates and persists a fresh token for the user.
func (i *Issuer) Issue(ctx context.Context, userID string) (*domain.Token, error) {
	token, err := i.newToken(userID)
	if err != nil {
		return nil, err
	}
	if err := i.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Validate resolves a token string to its live record. Absent, revoked and
// expired tokens all map to the same error.
func (i *Issuer) Validate(ctx context.Context, tokenStr string) (*domain.Token, error) {
	token, err := i.tokens.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, err
	}
	if !token.Valid(time.Now()) {
		return nil, apperrors.NewInvalidToken()
	}
	return token, nil
}

// Revoke marks the token revoked. Revoking an unknown or already-revoked
// token succeeds so logout stays idempotent.
func (i *Issuer) Revoke(ctx context.Context, tokenStr string) error {
	return i.tokens.Revoke(ctx, tokenStr)
}

// Refresh revokes the presented token and issues a replacement for the same
// user. Both steps happen in one store transaction; when the presented token
// is not live, no replacement is created.
func (i *Issuer) Refresh(ctx context.Context, tokenStr string) (*domain.Token, error) {
	current, err := i.Validate(ctx, tokenStr)
	if err != nil {
		return nil, err
	}

	next, err := i.newToken(current.UserID)
	if err != nil {
		return nil, err
	}
	if err := i.tokens.RevokeAndCreate(ctx, tokenStr, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race against a concurrent refresh or logout
			return nil, apperrors.NewInvalidToken()
		}
		return nil, err
	}
	return next, nil
}

func (i *Issuer) newToken(userID string) (*domain.Token, error) {
	value, err := randomHex(tokenBytes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &domain.Token{
		Token:     value,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
