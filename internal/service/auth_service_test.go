package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/config"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	user.ID = fmt.Sprintf("user-%d", m.seq)
	user.Email = strings.ToLower(user.Email)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]*domain.Token)}
}

func (m *memoryTokenRepo) Create(_ context.Context, token *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *token
	m.tokens[token.Token] = &copied
	return nil
}

func (m *memoryTokenRepo) GetByToken(_ context.Context, tokenStr string) (*domain.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (m *memoryTokenRepo) Revoke(_ context.Context, tokenStr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.tokens[tokenStr]; ok {
		token.Revoked = true
	}
	return nil
}

func (m *memoryTokenRepo) RevokeAndCreate(_ context.Context, old string, next *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[old]
	if !ok || token.Revoked || !time.Now().Before(token.ExpiresAt) {
		return pgx.ErrNoRows
	}
	token.Revoked = true
	copied := *next
	m.tokens[next.Token] = &copied
	return nil
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = 4
	return cfg
}

func newTestAuthService() (*AuthService, *memoryUserRepo, events.Dispatcher) {
	users := newMemoryUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:   users,
		TokenRepo:  newMemoryTokenRepo(),
		Dispatcher: dispatcher,
	})
	return svc, users, dispatcher
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:                 "Test User",
		Email:                "test@example.com",
		Password:             "SecureP@ss123",
		PasswordConfirmation: "SecureP@ss123",
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _, dispatcher := newTestAuthService()

	var registered []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, event events.Event) error {
		registered = append(registered, event)
		return nil
	})

	user, token, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "test@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, token.Token)
	assert.NotEqual(t, "SecureP@ss123", user.PasswordHash)

	me, err := svc.Me(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	require.Len(t, registered, 1)
	assert.Equal(t, user.ID, registered[0].SubjectID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	cases := map[string]struct {
		mutate func(*RegisterInput)
		field  string
	}{
		"missing name": {
			mutate: func(in *RegisterInput) { in.Name = "  " },
			field:  "name",
		},
		"invalid email": {
			mutate: func(in *RegisterInput) { in.Email = "not-an-email" },
			field:  "email",
		},
		"short password": {
			mutate: func(in *RegisterInput) { in.Password = "Ab1"; in.PasswordConfirmation = "Ab1" },
			field:  "password",
		},
		"weak password": {
			mutate: func(in *RegisterInput) { in.Password = "alllowercase"; in.PasswordConfirmation = "alllowercase" },
			field:  "password",
		},
		"confirmation mismatch": {
			mutate: func(in *RegisterInput) { in.PasswordConfirmation = "Different123" },
			field:  "password",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			input := validRegistration()
			tc.mutate(&input)
			_, _, err := svc.Register(context.Background(), input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Equal(t, 422, domainErr.HTTPStatus)
			assert.Contains(t, domainErr.Details, tc.field)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "email")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, _, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "SecureP@ss123")
	_, _, wrongPassErr := svc.Login(context.Background(), "test@example.com", "WrongPass123")

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	unknown := apperrors.ToDomainError(unknownErr)
	wrongPass := apperrors.ToDomainError(wrongPassErr)
	assert.Equal(t, unknown.Code, wrongPass.Code)
	assert.Equal(t, unknown.Message, wrongPass.Message)
	assert.Equal(t, unknown.HTTPStatus, wrongPass.HTTPStatus)
	assert.Equal(t, 401, wrongPass.HTTPStatus)
}

func TestLoginIssuesFreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, first, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user, second, err := svc.Login(context.Background(), "test@example.com", "SecureP@ss123")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, first.Token, second.Token)

	// both tokens stay valid until explicitly revoked
	_, err = svc.Me(context.Background(), first.Token)
	assert.NoError(t, err)
	_, err = svc.Me(context.Background(), second.Token)
	assert.NoError(t, err)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, token, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token.Token))
	require.NoError(t, svc.Logout(context.Background(), token.Token))

	_, err = svc.Me(context.Background(), token.Token)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperrors.ToDomainError(err).Code)
}

func TestRefreshInvalidatesOldToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, old, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), old.Token)
	require.NoError(t, err)
	assert.NotEqual(t, old.Token, next.Token)

	_, err = svc.Me(context.Background(), next.Token)
	assert.NoError(t, err)
	_, err = svc.Me(context.Background(), old.Token)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperrors.ToDomainError(err).Code)

	// refreshing the dead token again fails
	_, err = svc.Refresh(context.Background(), old.Token)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperrors.ToDomainError(err).Code)
}
