// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

type memoryTokens struct {
	mu      sync.Mutex
	byHash  map[string]*PersonalAccessToken
	touched map[string]time.Time
	failOn  string
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{
		byHash:  make(map[string]*PersonalAccessToken),
		touched: make(map[string]time.Time),
	}
}

func (m *memoryTokens) Replace(_ context.Context, token *PersonalAccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, t := range m.byHash {
		if t.UserID == token.UserID {
			delete(m.byHash, hash)
		}
	}
	token.CreatedAt = time.Now()
	stored := *token
	m.byHash[token.TokenHash] = &stored
	return nil
}

func (m *memoryTokens) FindByHash(_ context.Context, hash string) (*PersonalAccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("find access token: %w", core.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTokens) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "delete" {
		return assertErr
	}
	for hash, t := range m.byHash {
		if t.ID == id {
			delete(m.byHash, hash)
		}
	}
	return nil
}

func (m *memoryTokens) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "delete" {
		return 0, assertErr
	}
	var n int64
	for hash, t := range m.byHash {
		if t.UserID == userID {
			delete(m.byHash, hash)
			n++
		}
	}
	return n, nil
}

func (m *memoryTokens) TouchLastUsed(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched[id] = at
	return nil
}

func (m *memoryTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for hash, t := range m.byHash {
		if t.ExpiresAt != nil && t.ExpiresAt.Before(before) {
			delete(m.byHash, hash)
			n++
		}
	}
	return n, nil
}

func (m *memoryTokens) CountActive(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byHash)), nil
}

func (m *memoryTokens) countFor(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.byHash {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

var assertErr = fmt.Errorf("storage unavailable")

type memoryUsers struct {
	mu     sync.Mutex
	users  map[int64]*UserInfo
	nextID int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[int64]*UserInfo)}
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryUsers) Create(_ context.Context, in NewUser) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := &UserInfo{
		ID:           m.nextID,
		Fullname:     in.Fullname,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Tel:          in.Tel,
		Role:         in.Role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryUsers) setRole(id int64, role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].Role = role
}

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath: filepath.Join(dir, "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "public.pem"),
		Issuer:         "catalog-backend",
		Audience:       "catalog-api",
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	return cfg
}

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testJWTConfig(t))
	require.NoError(t, err)
	return tm
}

type testEnv struct {
	svc    *Service
	tokens *memoryTokens
	users  *memoryUsers
}

func newTestEnv(t *testing.T, policy string) *testEnv {
	t.Helper()
	tokens := newMemoryTokens()
	users := newMemoryUsers()
	svc := NewService(tokens, newTestTokenManager(t), users, config.AuthConfig{LogoutPolicy: policy})
	return &testEnv{svc: svc, tokens: tokens, users: users}
}

func intPtr(v int) *int { return &v }

func (e *testEnv) register(t *testing.T, email string, role int) *UserInfo {
	t.Helper()
	u, err := e.svc.Register(context.Background(), RegisterRequest{
		Fullname:             "Test User",
		Username:             "tester",
		Email:                email,
		Password:             "password123",
		PasswordConfirmation: "password123",
		Tel:                  "0812345678",
		Role:                 intPtr(role),
	})
	require.NoError(t, err)
	return u
}
