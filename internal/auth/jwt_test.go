// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

func TestIssueAndParse(t *testing.T) {
	tm := newTestTokenManager(t)

	issued, err := tm.Issue(42, []string{"1"})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.Nil(t, issued.ExpiresAt)

	claims, err := tm.Parse(issued.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	tm := newTestTokenManager(t)

	a, err := tm.Issue(1, []string{"1"})
	require.NoError(t, err)
	b, err := tm.Issue(1, []string{"1"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Plaintext, b.Plaintext)
	assert.NotEqual(t, core.HashToken(a.Plaintext), core.HashToken(b.Plaintext))
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := newTestTokenManager(t)

	issued, err := tm.Issue(1, []string{"1"})
	require.NoError(t, err)

	_, err = tm.Parse(issued.Plaintext + "x")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = tm.Parse("not-a-jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestParseRejectsForeignKey(t *testing.T) {
	issuer := newTestTokenManager(t)
	other := newTestTokenManager(t)

	issued, err := issuer.Issue(1, []string{"1"})
	require.NoError(t, err)

	_, err = other.Parse(issued.Plaintext)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig(t)
	cfg.TokenExpire = time.Hour

	tm, err := NewTokenManager(cfg)
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := tm.Issue(1, []string{"1"})
	require.NoError(t, err)
	require.NotNil(t, issued.ExpiresAt)

	tm.now = time.Now
	_, err = tm.Parse(issued.Plaintext)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestNewTokenManagerMissingKey(t *testing.T) {
	cfg := testJWTConfig(t)
	cfg.PrivateKeyPath = cfg.PrivateKeyPath + ".missing"

	_, err := NewTokenManager(cfg)
	assert.Error(t, err)
}

func TestKeyIDIsStableForKey(t *testing.T) {
	cfg := testJWTConfig(t)

	a, err := NewTokenManager(cfg)
	require.NoError(t, err)
	b, err := NewTokenManager(cfg)
	require.NoError(t, err)

	assert.Len(t, a.KeyID(), keyIDLength)
	assert.Equal(t, a.KeyID(), b.KeyID())
	assert.NotEqual(t, a.KeyID(), newTestTokenManager(t).KeyID())
}
