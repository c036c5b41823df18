package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contesthub/internal/common"
	"contesthub/internal/common/security"
	"contesthub/internal/domain/model"
	"contesthub/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) Create(context.Context, *model.User) error { return nil }
func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, common.ErrNotFound
}
func (r *stubUserRepo) FindByID(context.Context, string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (r *stubUserRepo) List(context.Context) ([]model.User, error)        { return nil, nil }
func (r *stubUserRepo) UpdateRole(context.Context, string, string) error  { return nil }
func (r *stubUserRepo) UpdateProfile(context.Context, *model.User) error  { return nil }

type stubRoleCache struct {
	roles map[string]string
	sets  int
}

func (c *stubRoleCache) Get(_ context.Context, email string) (string, bool) {
	role, ok := c.roles[email]
	return role, ok
}
func (c *stubRoleCache) Set(_ context.Context, email, role string) {
	c.roles[email] = role
	c.sets++
}
func (c *stubRoleCache) Invalidate(_ context.Context, email string) { delete(c.roles, email) }

func setupRouter(t *testing.T, users *stubUserRepo, roles *stubRoleCache) chi.Router {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()

	rc := NewRoleChecker(users, roles)
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(Authenticator)
	r.With(rc.RequireAdmin).Get("/admin-only", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.With(rc.RequireCreator).Get("/creator-only", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return r
}

func do(t *testing.T, r chi.Router, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	r := setupRouter(t, &stubUserRepo{}, &stubRoleCache{roles: map[string]string{}})

	w := do(t, r, "/admin-only", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatorRejectsBadToken(t *testing.T) {
	r := setupRouter(t, &stubUserRepo{}, &stubRoleCache{roles: map[string]string{}})

	w := do(t, r, "/admin-only", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGate(t *testing.T) {
	users := &stubUserRepo{user: &model.User{ID: "u1", Email: "alice@example.com", Role: model.RoleUser}}
	roles := &stubRoleCache{roles: map[string]string{}}
	r := setupRouter(t, users, roles)

	token, err := security.GenerateToken("alice@example.com", "Alice")
	require.NoError(t, err)

	// Plain user is forbidden from both gated routes.
	assert.Equal(t, http.StatusForbidden, do(t, r, "/admin-only", token).Code)
	assert.Equal(t, http.StatusForbidden, do(t, r, "/creator-only", token).Code)

	// Role change takes effect on the next request once the cache entry goes.
	users.user.Role = model.RoleAdmin
	roles.Invalidate(context.Background(), "alice@example.com")
	assert.Equal(t, http.StatusOK, do(t, r, "/admin-only", token).Code)
}

func TestRoleGateUnknownPrincipal(t *testing.T) {
	r := setupRouter(t, &stubUserRepo{}, &stubRoleCache{roles: map[string]string{}})

	token, err := security.GenerateToken("ghost@example.com", "Ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(t, r, "/admin-only", token).Code)
}

func TestRoleGatePopulatesCache(t *testing.T) {
	users := &stubUserRepo{user: &model.User{ID: "u1", Email: "carol@example.com", Role: model.RoleCreator}}
	roles := &stubRoleCache{roles: map[string]string{}}
	r := setupRouter(t, users, roles)

	token, err := security.GenerateToken("carol@example.com", "Carol")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(t, r, "/creator-only", token).Code)
	assert.Equal(t, 1, roles.sets)

	// Second request is served from the cache.
	assert.Equal(t, http.StatusOK, do(t, r, "/creator-only", token).Code)
	assert.Equal(t, 1, roles.sets)
}
