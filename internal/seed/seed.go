// AngelaMos | 2026
// seed.go

package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
	"github.com/carterperez-dev/templates/catalog-backend/internal/category"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
	"github.com/carterperez-dev/templates/catalog-backend/internal/product"
)

type Users interface {
	GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, in auth.NewUser) (*auth.UserInfo, error)
}

type Categories interface {
	List(ctx context.Context) ([]category.Category, error)
	Create(ctx context.Context, actor *middleware.Identity, req category.CategoryRequest) (*category.Category, error)
}

type Products interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, actor *middleware.Identity, in product.Input) (*product.Product, error)
}

type account struct {
	fullname string
	username string
	email    string
	tel      string
	role     auth.Role
}

var accounts = []account{
	{"Admin User", "admin", "admin@example.com", "1234567890", auth.RoleGuest},
	{"Normal User", "user", "user@example.com", "0987654321", auth.RoleAdmin},
	{"Manager User", "manager", "manager@example.com", "1122334455", auth.RoleMember},
}

var categoryNames = []string{
	"Mobile", "Tablet", "Smart Watch", "Laptop", "Desktop",
	"Camera", "Headphones", "Speakers", "Accessories", "Gaming",
}

const DefaultProducts = 100

// Report counts what a run inserted. Rows that already existed are not
// counted.
type Report struct {
	Users      int
	Categories int
	Products   int
}

type Seeder struct {
	users      Users
	categories Categories
	products   Products
	password   string
	count      int
	rng        *rand.Rand
	logger     *slog.Logger
}

func New(users Users, categories Categories, products Products, password string) *Seeder {
	return &Seeder{
		users:      users,
		categories: categories,
		products:   products,
		password:   password,
		count:      DefaultProducts,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec
		logger:     slog.Default(),
	}
}

// WithProducts overrides how many demo products an empty catalog receives.
func (s *Seeder) WithProducts(n int) *Seeder {
	s.count = n
	return s
}

// Run fills an empty database with demo data. Users are matched by email,
// categories by being present at all, and products are only added when
// the table is empty, so running it twice changes nothing.
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	var report Report

	owners, created, err := s.seedUsers(ctx)
	if err != nil {
		return report, err
	}
	report.Users = created

	categoryIDs, created, err := s.seedCategories(ctx, owners)
	if err != nil {
		return report, err
	}
	report.Categories = created

	report.Products, err = s.seedProducts(ctx, owners, categoryIDs)
	if err != nil {
		return report, err
	}

	s.logger.Info("seed complete",
		"users", report.Users,
		"categories", report.Categories,
		"products", report.Products,
	)
	return report, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]int64, int, error) {
	hash, err := core.HashPassword(s.password)
	if err != nil {
		return nil, 0, fmt.Errorf("hash seed password: %w", err)
	}

	ids := make([]int64, 0, len(accounts))
	created := 0
	for _, a := range accounts {
		exists, err := s.users.EmailExists(ctx, a.email)
		if err != nil {
			return nil, created, fmt.Errorf("seed user %s: %w", a.username, err)
		}

		var u *auth.UserInfo
		if exists {
			u, err = s.users.GetByEmail(ctx, a.email)
		} else {
			u, err = s.users.Create(ctx, auth.NewUser{
				Fullname:     a.fullname,
				Username:     a.username,
				Email:        a.email,
				PasswordHash: hash,
				Tel:          a.tel,
				Role:         a.role,
			})
		}
		if err != nil {
			return nil, created, fmt.Errorf("seed user %s: %w", a.username, err)
		}
		if !exists {
			created++
		}
		ids = append(ids, u.ID)
	}
	return ids, created, nil
}

func (s *Seeder) seedCategories(ctx context.Context, owners []int64) ([]int64, int, error) {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		ids := make([]int64, len(existing))
		for i, c := range existing {
			ids[i] = c.ID
		}
		return ids, 0, nil
	}

	actor := writer(owners[0])
	enabled := category.Status{Valid: true, Value: true}

	ids := make([]int64, 0, len(categoryNames))
	for _, name := range categoryNames {
		c, err := s.categories.Create(ctx, actor, category.CategoryRequest{Name: name, Status: enabled})
		if err != nil {
			return nil, len(ids), fmt.Errorf("seed category %s: %w", name, err)
		}
		ids = append(ids, c.ID)
	}
	return ids, len(ids), nil
}

func (s *Seeder) seedProducts(ctx context.Context, owners, categoryIDs []int64) (int, error) {
	total, err := s.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if total > 0 || len(categoryIDs) == 0 {
		return 0, nil
	}

	for i := 1; i <= s.count; i++ {
		n := strconv.Itoa(i)
		description := "Description for Product " + n

		_, err := s.products.Create(ctx, writer(owners[s.rng.IntN(len(owners))]), product.Input{
			Name:        "Product " + n,
			Slug:        "product-" + n,
			Description: &description,
			Price:       float64(1000+s.rng.IntN(99001)) / 100,
			CategoryID:  categoryIDs[s.rng.IntN(len(categoryIDs))],
		})
		if err != nil {
			return i - 1, fmt.Errorf("seed product %d: %w", i, err)
		}
	}
	return s.count, nil
}

// writer is the identity seed rows are attributed to. The owner keeps
// their stored role; only the ability to write the catalog is granted.
func writer(userID int64) *middleware.Identity {
	return &middleware.Identity{
		UserID:    userID,
		TokenID:   "seed",
		Abilities: []string{auth.AbilityCatalogWrite},
	}
}
