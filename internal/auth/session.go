package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// AdminLoginFailedMessage is returned for every admin login failure. Wrong
// password, unknown email and valid-but-non-admin credentials are
// indistinguishable on purpose.
const AdminLoginFailedMessage = "The provided credentials do not match our records or you do not have admin privileges."

// ErrSessionNotFound signals an absent or expired session.
var ErrSessionNotFound = errors.New("session not found")

const (
	sessionKeyPrefix = "admin_session:"
	sessionIDBytes   = 32
	csrfTokenBytes   = 32
)

// Session is server-side state for the admin cookie flow.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore persists admin sessions.
type SessionStore interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore returns a Redis-backed session store. Sessions expire
// from Redis after ttl without any sweeper.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Put(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, payload, s.ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// SessionGuard authenticates the admin web interface through cookie
// sessions, independent of the bearer-token path.
type SessionGuard struct {
	users repository.UserRepository
	store SessionStore
}

// NewSessionGuard builds the guard.
func NewSessionGuard(users repository.UserRepository, store SessionStore) *SessionGuard {
	return &SessionGuard{users: users, store: store}
}

// Login verifies admin credentials and establishes a fresh session. Any
// prior session is destroyed first and the session identifier is never
// reused, so a pre-set identifier cannot survive a privilege change.
func (g *SessionGuard) Login(ctx context.Context, priorSessionID, email, password string) (*Session, error) {
	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errAdminLoginFailed()
		}
		return nil, err
	}
	if !user.IsAdmin {
		return nil, errAdminLoginFailed()
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errAdminLoginFailed()
	}

	if priorSessionID != "" {
		_ = g.store.Delete(ctx, priorSessionID)
	}

	session, err := newSession(user.ID)
	if err != nil {
		return nil, err
	}
	if err := g.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a session cookie to the admin user behind it.
func (g *SessionGuard) Authenticate(ctx context.Context, sessionID string) (*domain.User, *Session, error) {
	if sessionID == "" {
		return nil, nil, apperrors.NewUnauthorized("no session")
	}
	session, err := g.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil, apperrors.NewUnauthorized("session expired")
		}
		return nil, nil, err
	}
	user, err := g.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("session expired")
		}
		return nil, nil, err
	}
	if !user.IsAdmin {
		// the admin flag was dropped after the session was created
		_ = g.store.Delete(ctx, sessionID)
		return nil, nil, apperrors.NewNotAuthorized("admin privileges required")
	}
	return user, session, nil
}

// Logout destroys the session. Logging out an unknown session succeeds.
func (g *SessionGuard) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := g.store.Delete(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

func newSession(userID string) (*Session, error) {
	id, err := randomHex(sessionIDBytes)
	if err != nil {
		return nil, err
	}
	csrf, err := randomHex(csrfTokenBytes)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		CSRFToken: csrf,
		CreatedAt: time.Now(),
	}, nil
}

func errAdminLoginFailed() error {
	return apperrors.NewDomainError("INVALID_CREDENTIALS", AdminLoginFailedMessage, http.StatusUnauthorized, nil)
}
