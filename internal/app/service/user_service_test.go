package service

import (
	"context"
	"errors"
	"testing"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrGetFirstSignIn(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewUserService(userRepo, newFakeRoleCache())

	user, created, err := svc.CreateOrGet(context.Background(), CreateUserRequest{
		Name:  "Alice",
		Email: "alice@example.com",
		Image: "https://img.example.com/alice.png",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)

	// Repeat sign-in returns the same record.
	again, created, err := svc.CreateOrGet(context.Background(), CreateUserRequest{
		Name:  "Alice Renamed",
		Email: "alice@example.com",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Alice", again.Name)
}

func TestCreateOrGetValidation(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, newFakeRoleCache())

	_, _, err := svc.CreateOrGet(context.Background(), CreateUserRequest{Name: "Alice"})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestUpdateRoleInvalidatesCache(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*model.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser},
	}}
	roleCache := newFakeRoleCache()
	roleCache.roles["alice@example.com"] = model.RoleUser
	svc := NewUserService(userRepo, roleCache)

	user, err := svc.UpdateRole(context.Background(), "u1", model.RoleCreator)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCreator, user.Role)

	_, cached := roleCache.Get(context.Background(), "alice@example.com")
	assert.False(t, cached, "role change must evict the cached role")
	assert.Equal(t, []string{"alice@example.com"}, roleCache.invalidated)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, newFakeRoleCache())

	_, err := svc.UpdateRole(context.Background(), "u1", "superadmin")
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestUpdateProfile(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*model.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser},
	}}
	svc := NewUserService(userRepo, newFakeRoleCache())

	user, err := svc.UpdateProfile(context.Background(), "alice@example.com", UpdateProfileRequest{
		Name:    "Alice A.",
		Address: "42 Main St",
		Bio:     "designer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", user.Name)
	assert.Equal(t, "42 Main St", user.Address)
	assert.Equal(t, model.RoleUser, user.Role, "profile edit must not touch role")
}
