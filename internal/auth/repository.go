// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

type Repository interface {
	// Replace removes every token the user holds and stores token in their
	// place, atomically.
	Replace(ctx context.Context, token *PersonalAccessToken) error
	FindByHash(ctx context.Context, tokenHash string) (*PersonalAccessToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Replace(
	ctx context.Context,
	token *PersonalAccessToken,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := deleteAllForUser(ctx, tx, token.UserID); err != nil {
			return err
		}
		return insertToken(ctx, tx, token)
	})
}

func insertToken(
	ctx context.Context,
	db core.DBTX,
	token *PersonalAccessToken,
) error {
	query := `
		INSERT INTO personal_access_tokens (
			id, user_id, name, token_hash, abilities, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at`

	err := db.GetContext(ctx, &token.CreatedAt, query,
		token.ID,
		token.UserID,
		token.Name,
		token.TokenHash,
		token.Abilities,
		token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create access token: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*PersonalAccessToken, error) {
	query := `
		SELECT
			id, user_id, name, token_hash, abilities,
			last_used_at, expires_at, created_at
		FROM personal_access_tokens
		WHERE token_hash = $1`

	var token PersonalAccessToken
	err := r.db.GetContext(ctx, &token, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find access token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find access token: %w", err)
	}

	return &token, nil
}

func (r *repository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM personal_access_tokens WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}

	return nil
}

func (r *repository) DeleteAllForUser(
	ctx context.Context,
	userID int64,
) (int64, error) {
	return deleteAllForUser(ctx, r.db, userID)
}

func deleteAllForUser(
	ctx context.Context,
	db core.DBTX,
	userID int64,
) (int64, error) {
	query := `DELETE FROM personal_access_tokens WHERE user_id = $1`

	result, err := db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user tokens: %w", err)
	}

	return rows, nil
}

func (r *repository) TouchLastUsed(
	ctx context.Context,
	id string,
	at time.Time,
) error {
	query := `
		UPDATE personal_access_tokens
		SET last_used_at = $2
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("touch access token: %w", err)
	}

	return nil
}

func (r *repository) DeleteExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	query := `
		DELETE FROM personal_access_tokens
		WHERE expires_at IS NOT NULL AND expires_at < $1`

	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return rows, nil
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*) FROM personal_access_tokens
		WHERE expires_at IS NULL OR expires_at > NOW()`

	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count active tokens: %w", err)
	}

	return count, nil
}
