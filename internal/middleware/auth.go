// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

const (
	IdentityKey contextKey = "identity"
	TokenKey    contextKey = "bearer_token"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// Identity is the caller resolved from a bearer token. Abilities are the
// claims stored with the token when it was issued.
type Identity struct {
	UserID    int64
	TokenID   string
	Abilities []string
}

func (i *Identity) Can(ability string) bool {
	if i == nil {
		return false
	}
	return slices.Contains(i.Abilities, ability)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = context.WithValue(ctx, TokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAbility rejects callers whose token does not carry ability.
// It must run after Authenticator.
func RequireAbility(ability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())

			if identity == nil {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			if !identity.Can(ability) {
				core.JSONError(w, core.ForbiddenError(PermissionDenied(r.Method)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PermissionDenied names the refused action the way clients expect it.
func PermissionDenied(method string) string {
	switch method {
	case http.MethodPost:
		return "Permission denied to create"
	case http.MethodPut, http.MethodPatch:
		return "Permission denied to update"
	case http.MethodDelete:
		return "Permission denied to delete"
	default:
		return "Permission denied"
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid), errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	default:
		core.InternalServerError(w, err)
	}
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if entry, ok := ctx.Value(accessLogKey).(*accessLog); ok && identity != nil {
		entry.userID = identity.UserID
	}
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetToken(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

func GetUserID(ctx context.Context) int64 {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.UserID
	}
	return 0
}

func IsAuthenticated(ctx context.Context) bool {
	return GetIdentity(ctx) != nil
}
