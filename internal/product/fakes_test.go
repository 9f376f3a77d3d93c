// AngelaMos | 2026
// fakes_test.go

package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/catalog-backend/internal/asset"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

var (
	writer = &middleware.Identity{UserID: 1, TokenID: "w", Abilities: []string{"1"}}
	other  = &middleware.Identity{UserID: 3, TokenID: "o", Abilities: []string{"1"}}
	reader = &middleware.Identity{UserID: 2, TokenID: "r", Abilities: []string{"2"}}
)

type memoryRepo struct {
	mu         sync.Mutex
	rows       map[int64]Product
	categories map[int64]string
	nextID     int64
	writes     int
	failUpdate error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		rows:       make(map[int64]Product),
		categories: map[int64]string{1: "Mobile", 2: "Laptop"},
	}
}

func (m *memoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.categories[id]
	return ok, nil
}

func (m *memoryRepo) joined(p Product) ProductWithJoins {
	return ProductWithJoins{
		Product:      p,
		CategoryName: m.categories[p.CategoryID],
		UserFullname: fmt.Sprintf("user %d", p.UserID),
	}
}

func (m *memoryRepo) List(_ context.Context, f ListFilter) ([]ProductWithJoins, int64, error) {
	f = f.normalized()
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []ProductWithJoins
	for _, p := range m.rows {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.CategoryID > 0 && p.CategoryID != f.CategoryID {
			continue
		}
		matched = append(matched, m.joined(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := int(f.offset())
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+f.Limit, len(matched))

	return append([]ProductWithJoins{}, matched[start:end]...), total, nil
}

func (m *memoryRepo) ListByCategory(ctx context.Context, categoryID int64) ([]ProductWithJoins, error) {
	rows, _, err := m.List(ctx, ListFilter{CategoryID: categoryID, Limit: MaxLimit})
	return rows, err
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (m *memoryRepo) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryRepo) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return m.failUpdate
	}
	existing, ok := m.rows[p.ID]
	if !ok {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	m.writes++
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}
	m.writes++
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type recordingAssets struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	saveErr error
	seq     int
}

func (a *recordingAssets) Save(_ context.Context, up *asset.Upload) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saveErr != nil {
		return "", a.saveErr
	}
	if _, err := io.Copy(io.Discard, up.Content); err != nil {
		return "", err
	}
	a.seq++
	name := fmt.Sprintf("img%d%s", a.seq, up.Ext())
	a.saved = append(a.saved, name)
	return name, nil
}

func (a *recordingAssets) Remove(_ context.Context, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removed = append(a.removed, name)
}

func upload(name string) *asset.Upload {
	return &asset.Upload{Filename: name, Content: strings.NewReader("GIF89a")}
}

func phoneX(categoryID int64) Input {
	return Input{Name: "Phone X", Slug: "phone-x", Price: 999, CategoryID: categoryID}
}

var errBoom = errors.New("boom")
