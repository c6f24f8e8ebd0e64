package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func setup(t *testing.T) (auth.AuthService, user.UserRepository, jwt.Service, user.User) {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	jwtService := jwt.NewJWTService(testSecret, "1h")

	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	admin, err := users.Create(context.Background(), user.User{
		Username: "admin", Name: "Admin User", Email: "admin@company.com",
		PasswordHash: hash, Role: user.RoleAdmin, Department: "Management",
	})
	require.NoError(t, err)

	return NewAuthService(users, jwtService), users, jwtService, admin
}

func TestLogin(t *testing.T) {
	svc, _, jwtService, admin := setup(t)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "admin123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.ExpiresAt)
		assert.Equal(t, admin.ID, resp.User.ID)
		assert.Equal(t, "admin", resp.User.Role)

		authed, err := jwt.ContextWithToken(ctx, jwtService, resp.Token)
		require.NoError(t, err)
		p, err := jwt.PrincipalFromContext(authed)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, p.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "wrong"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "nobody", Password: "admin123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
	})
}

func TestRegister(t *testing.T) {
	svc, _, jwtService, admin := setup(t)

	adminToken, _, err := jwtService.GenerateAccessToken(admin.ID, user.RoleAdmin)
	require.NoError(t, err)
	adminCtx, err := jwt.ContextWithToken(context.Background(), jwtService, adminToken)
	require.NoError(t, err)

	req := auth.RegisterRequest{
		Username: "john.doe", Name: "John Doe", Email: "John.Doe@company.com",
		Password: "password123", Department: "Engineering",
	}

	created, err := svc.Register(adminCtx, req)
	require.NoError(t, err)
	assert.Equal(t, "employee", created.Role)
	assert.Equal(t, "john.doe@company.com", created.Email)

	_, err = svc.Register(adminCtx, req)
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	login, err := svc.Login(context.Background(), auth.LoginRequest{Username: "john.doe", Password: "password123"})
	require.NoError(t, err)

	employeeCtx, err := jwt.ContextWithToken(context.Background(), jwtService, login.Token)
	require.NoError(t, err)

	_, err = svc.Register(employeeCtx, auth.RegisterRequest{Username: "x.y", Name: "X", Email: "x@company.com", Password: "password123", Department: "HR"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.ListUsers(employeeCtx)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	users, err := svc.ListUsers(adminCtx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	profile, err := svc.Profile(employeeCtx)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", profile.Name)
}

func TestRegisterValidation(t *testing.T) {
	req := auth.RegisterRequest{Username: "ab", Email: "nope", Password: "short", Role: "owner"}
	err := req.Validate()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	for _, f := range []string{"username", "name", "email", "password", "role", "department"} {
		assert.Contains(t, fields, f)
	}
}
