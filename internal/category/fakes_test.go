// AngelaMos | 2026
// fakes_test.go

package category

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

type memoryRepo struct {
	mu      sync.Mutex
	rows    map[int64]Category
	nextID  int64
	writes  int
	inUse   map[int64]bool
	deleted []int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]Category), inUse: make(map[int64]bool)}
}

func (m *memoryRepo) List(context.Context) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Category, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	return &c, nil
}

func (m *memoryRepo) Create(_ context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepo) Update(_ context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[c.ID]
	if !ok {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}
	m.writes++
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inUse[id] {
		return fmt.Errorf("delete category: %w", ErrInUse)
	}
	m.writes++
	m.deleted = append(m.deleted, id)
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memoryRepo) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

var (
	writer = &middleware.Identity{UserID: 1, TokenID: "w", Abilities: []string{"1"}}
	reader = &middleware.Identity{UserID: 2, TokenID: "r", Abilities: []string{"2"}}
)

type stubVerifier map[string]*middleware.Identity

func (s stubVerifier) VerifyToken(_ context.Context, token string) (*middleware.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, core.ErrTokenInvalid
}
