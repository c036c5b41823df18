package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"contesthub/internal/common"
	"contesthub/internal/common/security"
	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"
	"contesthub/internal/platform/cache"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserEmailCtxKey contextKey = "userEmail"

func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		email, err := security.GetEmailFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserEmailCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RoleChecker resolves the caller's role from the store on every request,
// fronted by a short-TTL cache that the role-change write invalidates. The
// token never carries the role, so a demotion is effective immediately.
type RoleChecker struct {
	users repository.UserRepository
	roles cache.RoleCache
}

func NewRoleChecker(users repository.UserRepository, roles cache.RoleCache) *RoleChecker {
	return &RoleChecker{users: users, roles: roles}
}

func (rc *RoleChecker) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := GetUserEmailFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
				return
			}

			current, ok := rc.roles.Get(r.Context(), email)
			if !ok {
				user, err := rc.users.FindByEmail(r.Context(), email)
				if err != nil {
					if errors.Is(err, common.ErrNotFound) {
						common.RespondWithError(w, http.StatusForbidden, "forbidden access")
						return
					}
					common.RespondWithError(w, http.StatusInternalServerError, "failed to resolve role")
					return
				}
				current = user.Role
				rc.roles.Set(r.Context(), email, current)
			}

			if current != role {
				common.RespondWithError(w, http.StatusForbidden, "forbidden access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rc *RoleChecker) RequireAdmin(next http.Handler) http.Handler {
	return rc.RequireRole(model.RoleAdmin)(next)
}

func (rc *RoleChecker) RequireCreator(next http.Handler) http.Handler {
	return rc.RequireRole(model.RoleCreator)(next)
}

// GetUserEmailFromContext returns the authenticated principal's email.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailCtxKey).(string)
	return email, ok
}
