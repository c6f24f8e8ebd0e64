package auth

import (
	"context"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Register and ListUsers are admin only
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)
	ListUsers(ctx context.Context) ([]user.UserResponse, error)
	Profile(ctx context.Context) (user.UserResponse, error)
}
