// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

// ErrUnknownCategory is returned when a write references a category that
// does not exist.
var ErrUnknownCategory = errors.New("unknown category")

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]ProductWithJoins, int64, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]ProductWithJoins, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
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

var listColumns = []string{
	"p.id",
	"p.name",
	"p.slug",
	"p.description",
	"p.price",
	"p.image",
	"p.category_id",
	"p.user_id",
	"p.created_at",
	"p.updated_at",
	"c.name AS category_name",
	"u.fullname AS user_fullname",
}

func (r *repository) listQuery(f ListFilter) sq.SelectBuilder {
	q := r.builder.
		Select().
		From("products p").
		Join("categories c ON c.id = p.category_id").
		Join("users u ON u.id = p.user_id")

	if term := strings.TrimSpace(f.Search); term != "" {
		q = q.Where(sq.ILike{"p.name": "%" + escapeLike(term) + "%"})
	}
	if f.CategoryID > 0 {
		q = q.Where(sq.Eq{"p.category_id": f.CategoryID})
	}

	return q
}

func (r *repository) countSQL(f ListFilter) (string, []any, error) {
	return r.listQuery(f).Columns("COUNT(*)").ToSql()
}

func (r *repository) pageSQL(f ListFilter) (string, []any, error) {
	return r.listQuery(f).
		Columns(listColumns...).
		OrderBy("p.id DESC").
		Limit(uint64(f.Limit)).
		Offset(f.offset()).
		ToSql()
}

// List returns one page and the filtered total, counted before paging.
func (r *repository) List(ctx context.Context, f ListFilter) ([]ProductWithJoins, int64, error) {
	f = f.normalized()

	query, args, err := r.countSQL(f)
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query, args, err = r.pageSQL(f)
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	products := []ProductWithJoins{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) ListByCategory(ctx context.Context, categoryID int64) ([]ProductWithJoins, error) {
	query, args, err := r.listQuery(ListFilter{CategoryID: categoryID}).
		Columns(listColumns...).
		OrderBy("p.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category products query: %w", err)
	}

	products := []ProductWithJoins{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `
		SELECT id, name, slug, description, price, image, category_id,
		       user_id, created_at, updated_at
		FROM products
		WHERE id = $1`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (name, slug, description, price, image, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.Image, p.CategoryID, p.UserID,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create product: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, image = $6,
		    category_id = $7, user_id = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Image, p.CategoryID, p.UserID,
	)
	err := row.Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func mapWriteError(err error) error {
	code, constraint, ok := core.Violation(err)
	if ok && code == core.SQLStateForeignKeyViolation &&
		constraint == "products_category_id_fkey" {
		return ErrUnknownCategory
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
