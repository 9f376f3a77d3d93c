// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/templates/catalog-backend/internal/asset"
	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Assets interface {
	Save(ctx context.Context, up *asset.Upload) (string, error)
	Remove(ctx context.Context, name string)
}

// Input is a validated product write. Image is nil when no file was sent.
type Input struct {
	Name        string
	Slug        string
	Description *string
	Price       float64
	CategoryID  int64
	Image       *asset.Upload
}

type Service struct {
	repo       Repository
	categories CategoryChecker
	assets     Assets
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	categories CategoryChecker,
	assets Assets,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		categories: categories,
		assets:     assets,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]ProductWithJoins, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]ProductWithJoins, error) {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("list category products: %w", core.ErrNotFound)
	}
	return s.repo.ListByCategory(ctx, categoryID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	actor *middleware.Identity,
	in Input,
) (*Product, error) {
	if !actor.Can(auth.AbilityCatalogWrite) {
		return nil, fmt.Errorf("create product: %w", core.ErrForbidden)
	}

	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		UserID:      actor.UserID,
		Image:       asset.Sentinel,
	}

	if in.Image != nil {
		name, err := s.assets.Save(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		p.Image = name
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.discard(ctx, p.Image, err)
		return nil, s.writeError(err)
	}

	return p, nil
}

// Update overwrites every field and the owner. A new image is stored
// before the row changes and the old file is removed only after the row
// points at the new one.
func (s *Service) Update(
	ctx context.Context,
	actor *middleware.Identity,
	id int64,
	in Input,
) (*Product, error) {
	if !actor.Can(auth.AbilityCatalogWrite) {
		return nil, fmt.Errorf("update product: %w", core.ErrForbidden)
	}

	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:          id,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		UserID:      actor.UserID,
		Image:       existing.Image,
	}

	if in.Image != nil {
		name, err := s.assets.Save(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		p.Image = name
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if p.Image != existing.Image {
			s.discard(ctx, p.Image, err)
		}
		return nil, s.writeError(err)
	}

	if p.Image != existing.Image && !asset.IsSentinel(existing.Image) {
		s.assets.Remove(ctx, existing.Image)
	}

	return p, nil
}

// Delete removes the product's image file before its row.
func (s *Service) Delete(
	ctx context.Context,
	actor *middleware.Identity,
	id int64,
) error {
	if !actor.Can(auth.AbilityCatalogWrite) {
		return fmt.Errorf("delete product: %w", core.ErrForbidden)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !asset.IsSentinel(existing.Image) {
		s.assets.Remove(ctx, existing.Image)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) checkCategory(ctx context.Context, id int64) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return unknownCategoryError()
	}
	return nil
}

// discard drops a freshly stored image whose row write failed.
func (s *Service) discard(ctx context.Context, name string, cause error) {
	if asset.IsSentinel(name) {
		return
	}
	s.logger.Warn("discarding image after failed write", "name", name, "error", cause)
	s.assets.Remove(ctx, name)
}

func (s *Service) writeError(err error) error {
	if errors.Is(err, ErrUnknownCategory) {
		return unknownCategoryError()
	}
	return err
}

func unknownCategoryError() error {
	return core.FieldError("category_id", "The selected category id is invalid.")
}
