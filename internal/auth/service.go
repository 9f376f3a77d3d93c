// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// Session is a user together with the plaintext of their only live token.
type Session struct {
	User  *UserInfo
	Token string
}

type Service struct {
	repo         Repository
	tokens       *TokenManager
	userProvider UserProvider
	logoutPolicy string
	now          func() time.Time
}

func NewService(
	repo Repository,
	tokens *TokenManager,
	userProvider UserProvider,
	cfg config.AuthConfig,
) *Service {
	policy := cfg.LogoutPolicy
	if policy == "" {
		policy = config.LogoutKeep
	}

	return &Service{
		repo:         repo,
		tokens:       tokens,
		userProvider: userProvider,
		logoutPolicy: policy,
		now:          time.Now,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserInfo, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userProvider.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Fullname:     req.Fullname,
		Username:     req.Username,
		Email:        email,
		PasswordHash: passwordHash,
		Tel:          req.Tel,
		Role:         Role(*req.Role),
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent string,
) (*Session, error) {
	user, err := s.userProvider.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash unreadable",
			"user_id", user.ID,
			"error", err,
		)
		return nil, ErrInvalidCredentials
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.issue(ctx, user, userAgent)
}

// Refresh reissues a token for the caller using the role they hold now.
func (s *Service) Refresh(
	ctx context.Context,
	identity *middleware.Identity,
	userAgent string,
) (*Session, error) {
	if identity == nil {
		return nil, core.ErrUnauthorized
	}

	user, err := s.userProvider.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issue(ctx, user, userAgent)
}

func (s *Service) Logout(
	ctx context.Context,
	identity *middleware.Identity,
) error {
	if identity == nil {
		return core.ErrUnauthorized
	}

	switch s.logoutPolicy {
	case config.LogoutRevokeCurrent:
		if err := s.repo.DeleteByID(ctx, identity.TokenID); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	case config.LogoutRevokeAll:
		if _, err := s.repo.DeleteAllForUser(ctx, identity.UserID); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}

	return nil
}

// VerifyToken resolves a bearer token to the identity stored with it.
func (s *Service) VerifyToken(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByHash(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	if stored.UserID != claims.UserID || stored.ID != claims.ID {
		return nil, fmt.Errorf("verify token: owner mismatch: %w", core.ErrTokenInvalid)
	}

	now := s.now()
	if stored.IsExpired(now) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}

	if err := s.repo.TouchLastUsed(ctx, stored.ID, now); err != nil {
		slog.WarnContext(ctx, "token last-used update failed",
			"token_id", stored.ID,
			"error", err,
		)
	}

	return &middleware.Identity{
		UserID:    stored.UserID,
		TokenID:   stored.ID,
		Abilities: stored.AbilityList(),
	}, nil
}

// PurgeExpired drops tokens whose expiry has passed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// issue revokes whatever the user holds and stores a single new token.
func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent string,
) (*Session, error) {
	abilities := user.Role.Abilities()

	issued, err := s.tokens.Issue(user.ID, abilities)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	record := &PersonalAccessToken{
		ID:        issued.ID,
		UserID:    user.ID,
		Name:      truncate(userAgent, 255),
		TokenHash: core.HashToken(issued.Plaintext),
		ExpiresAt: issued.ExpiresAt,
	}
	record.SetAbilities(abilities)

	if err := s.repo.Replace(ctx, record); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &Session{User: user, Token: issued.Plaintext}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}
