// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

// ErrInUse is returned when products still reference the category.
var ErrInUse = errors.New("category has products")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	actor *middleware.Identity,
	req CategoryRequest,
) (*Category, error) {
	if !actor.Can(auth.AbilityCatalogWrite) {
		return nil, fmt.Errorf("create category: %w", core.ErrForbidden)
	}

	c := &Category{
		Name:   strings.TrimSpace(req.Name),
		Status: req.Status.Ptr(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Update checks the caller's ability before it looks the category up.
func (s *Service) Update(
	ctx context.Context,
	actor *middleware.Identity,
	id int64,
	req CategoryRequest,
) (*Category, error) {
	if !actor.Can(auth.AbilityCatalogWrite) {
		return nil, fmt.Errorf("update category: %w", core.ErrForbidden)
	}

	c := &Category{
		ID:     id,
		Name:   strings.TrimSpace(req.Name),
		Status: req.Status.Ptr(),
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(
	ctx context.Context,
	actor *middleware.Identity,
	id int64,
) error {
	if !actor.Can(auth.AbilityCatalogWrite) {
		return fmt.Errorf("delete category: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
