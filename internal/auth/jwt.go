// AngelaMos | 2026
// jwt.go

package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

const (
	tokenTypePersonalAccess = "personal_access"
	keyIDLength             = 16
)

// TokenManager signs and checks the JWS form of personal access tokens.
// Whether a token is still live is decided by the token store, not here.
type TokenManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
	now        func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	private, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &TokenManager{
		privateKey: private,
		publicKey:  public,
		publicJWKS: set,
		config:     cfg,
		now:        time.Now,
	}, nil
}

// loadSigningKey reads a PEM encoded P-256 key. The key id is the RFC 7638
// thumbprint, so it survives restarts and matches across replicas.
func loadSigningKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("key thumbprint: %w", err)
	}

	for name, value := range map[string]any{
		jwk.AlgorithmKey: jwa.ES256(),
		jwk.KeyIDKey:     base64.RawURLEncoding.EncodeToString(thumb)[:keyIDLength],
	} {
		if err := key.Set(name, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
	}
	return key, nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}
	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(privateKeyPath, private, 0o600); err != nil {
		return err
	}
	return writePEM(publicKeyPath, public, 0o644)
}

func writePEM(path string, key jwk.Key, mode os.FileMode) error {
	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type IssuedToken struct {
	ID        string
	Plaintext string
	ExpiresAt *time.Time
}

type TokenClaims struct {
	ID        string
	UserID    int64
	Abilities []string
}

func (m *TokenManager) Issue(userID int64, abilities []string) (*IssuedToken, error) {
	now := m.now()
	id := uuid.New().String()

	builder := jwt.NewBuilder().
		JwtID(id).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(strconv.FormatInt(userID, 10)).
		IssuedAt(now).
		NotBefore(now).
		Claim("abilities", abilities).
		Claim("type", tokenTypePersonalAccess)

	var expiresAt *time.Time
	if m.config.TokenExpire > 0 {
		exp := now.Add(m.config.TokenExpire)
		expiresAt = &exp
		builder = builder.Expiration(exp)
	}

	token, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		ID:        id,
		Plaintext: string(signed),
		ExpiresAt: expiresAt,
	}, nil
}

func (m *TokenManager) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("parse token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("parse token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypePersonalAccess {
		return nil, fmt.Errorf(
			"parse token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("parse token: missing subject: %w", core.ErrTokenInvalid)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse token: bad subject: %w", core.ErrTokenInvalid)
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, fmt.Errorf("parse token: missing jti: %w", core.ErrTokenInvalid)
	}

	var abilities []string
	//nolint:errcheck // the stored row is authoritative for abilities
	_ = token.Get("abilities", &abilities)

	return &TokenClaims{
		ID:        jti,
		UserID:    userID,
		Abilities: abilities,
	}, nil
}

// isTokenExpiredError matches the validation failure jwx reports for the
// exp claim.
func isTokenExpiredError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

func (m *TokenManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			core.InternalServerError(w, err)
		}
	}
}

func (m *TokenManager) KeyID() string {
	kid, _ := m.privateKey.KeyID()
	return kid
}
