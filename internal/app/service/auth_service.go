package service

import (
	"context"
	"fmt"

	"contesthub/internal/common"
	"contesthub/internal/common/security"
)

// AuthService issues bearer tokens. There is no password credential in this
// system: the client authenticates with its identity provider and exchanges
// the resulting identity payload for a short-lived API token.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (s *AuthService) IssueToken(_ context.Context, req TokenRequest) (*TokenResponse, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required: %w", common.ErrValidation)
	}
	token, err := security.GenerateToken(req.Email, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: token}, nil
}
