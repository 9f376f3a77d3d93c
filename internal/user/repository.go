// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db      core.DBTX
	builder sq.StatementBuilderType
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var userColumns = []string{
	"id", "fullname", "username", "email", "password_hash",
	"tel", "avatar", "role", "created_at", "updated_at",
}

func (r *repository) insertSQL(u *User) (string, []any, error) {
	return r.builder.
		Insert("users").
		Columns("fullname", "username", "email", "password_hash", "tel", "avatar", "role").
		Values(u.Fullname, u.Username, u.Email, u.PasswordHash, u.Tel, u.Avatar, u.Role).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query, args, err := r.insertSQL(u)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	switch {
	case core.IsUniqueViolation(err):
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	case err != nil:
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

func (r *repository) getOne(ctx context.Context, where sq.Eq) (*User, error) {
	query, args, err := r.builder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u User
	err = r.db.GetContext(ctx, &u, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query, args, err := r.builder.
		Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build password update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("update password: %w", err)
	} else if n == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
