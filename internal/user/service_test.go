// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

type memoryRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]*User)}
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *memoryRepo) Count(context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

var _ auth.UserProvider = (*Service)(nil)

func TestServiceCreateNormalizesEmail(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, auth.NewUser{
		Fullname:     " Jane Doe ",
		Username:     "jane",
		Email:        "Jane@Example.COM",
		PasswordHash: "hash",
		Tel:          "0800000000",
		Role:         auth.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, "Jane Doe", created.Fullname)
	assert.Equal(t, auth.RoleAdmin, created.Role)

	found, err := svc.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	exists, err := svc.EmailExists(ctx, "jane@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestServiceUpdatePassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, auth.NewUser{Email: "a@b.co", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, created.ID, "new"))
	assert.Equal(t, "new", repo.users[created.ID].PasswordHash)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
