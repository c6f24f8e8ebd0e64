package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

// HashPassword bcrypt-hashes a plaintext password with the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.GenerateAccessToken(userData.ID, userData.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.LoginResponse{
		Token:     token,
		ExpiresAt: time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
		User:      user.ToResponse(userData),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (user.UserResponse, error) {
	if err := a.requireAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.Create(ctx, user.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.Role(req.Role),
		Department:   req.Department,
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameExists) || errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user.ToResponse(created), nil
}

// ListUsers implements auth.AuthService.
func (a *AuthServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	if err := a.requireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := a.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context) (user.UserResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	userData, err := a.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.ToResponse(userData), nil
}

func (a *AuthServiceImpl) requireAdmin(ctx context.Context) error {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return user.RequireRole(principal, user.RoleAdmin)
}
