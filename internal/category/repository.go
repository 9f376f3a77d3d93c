// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM categories
		ORDER BY id`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var c Category
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name, status)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, c.Name, c.Status)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	query := `
		UPDATE categories
		SET name = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, c.ID, c.Name, c.Status)
	err := row.Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	return nil
}

// Delete removes the row if present. A missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete category: %w", ErrInUse)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM categories`); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
