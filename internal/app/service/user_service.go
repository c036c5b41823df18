package service

import (
	"context"
	"errors"
	"fmt"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"
	"contesthub/internal/platform/cache"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo  repository.UserRepository
	roleCache cache.RoleCache
}

func NewUserService(userRepo repository.UserRepository, roleCache cache.RoleCache) *UserService {
	return &UserService{userRepo: userRepo, roleCache: roleCache}
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// CreateOrGet registers a user on first sign-in. A repeat sign-in with a
// known email returns the existing record untouched.
func (s *UserService) CreateOrGet(ctx context.Context, req CreateUserRequest) (*model.User, bool, error) {
	if req.Name == "" || req.Email == "" {
		return nil, false, fmt.Errorf("name and email are required: %w", common.ErrValidation)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &model.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
		Role:  model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost a first-sign-in race; the other request's record wins.
			existing, err := s.userRepo.FindByEmail(ctx, req.Email)
			if err != nil {
				return nil, false, fmt.Errorf("failed to load user after create race: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return user, true, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateRole changes a user's role and invalidates the role cache entry so
// the change takes effect on the user's very next request.
func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	s.roleCache.Invalidate(ctx, user.Email)
	user.Role = role
	return user, nil
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	Address string `json:"address"`
	Bio     string `json:"bio"`
}

func (s *UserService) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*model.User, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", common.ErrValidation)
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Image = req.Image
	user.Address = req.Address
	user.Bio = req.Bio
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
