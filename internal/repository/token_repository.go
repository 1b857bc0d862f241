package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// TokenRepository persists opaque bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	GetByToken(ctx context.Context, token string) (*domain.Token, error)
	// Revoke marks a token revoked. Unknown or already-revoked tokens are a
	// no-op so logout stays idempotent.
	Revoke(ctx context.Context, token string) error
	// RevokeAndCreate atomically revokes old and inserts next in one
	// transaction. It returns pgx.ErrNoRows when old was not live, in which
	// case next is not created. Two concurrent calls on the same old token
	// cannot both succeed.
	RevokeAndCreate(ctx context.Context, old string, next *domain.Token) error
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a Postgres-backed implementation.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.Token) error {
	const query = `
        INSERT INTO tokens (token, user_id, issued_at, expires_at, revoked)
        VALUES ($1, $2, $3, $4, FALSE)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		token.Token,
		token.UserID,
		token.IssuedAt,
		token.ExpiresAt,
	).Scan(&token.ID)
}

func (r *tokenRepository) GetByToken(ctx context.Context, tokenStr string) (*domain.Token, error) {
	const query = `
        SELECT id, token, user_id, issued_at, expires_at, revoked
        FROM tokens WHERE token=$1`

	var token domain.Token
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&token.ID,
		&token.Token,
		&token.UserID,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.Revoked,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, tokenStr string) error {
	const query = `UPDATE tokens SET revoked=TRUE WHERE token=$1`
	_, err := r.pool.Exec(ctx, query, tokenStr)
	return err
}

func (r *tokenRepository) RevokeAndCreate(ctx context.Context, old string, next *domain.Token) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Compare-and-swap: only a live token can be refreshed, and only once.
	const revokeQuery = `
        UPDATE tokens SET revoked=TRUE
        WHERE token=$1 AND revoked=FALSE AND expires_at > NOW()`
	cmd, err := tx.Exec(ctx, revokeQuery, old)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertQuery = `
        INSERT INTO tokens (token, user_id, issued_at, expires_at, revoked)
        VALUES ($1, $2, $3, $4, FALSE)
        RETURNING id`
	if err := tx.QueryRow(ctx, insertQuery,
		next.Token,
		next.UserID,
		next.IssuedAt,
		next.ExpiresAt,
	).Scan(&next.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
