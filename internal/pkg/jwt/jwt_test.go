package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "168h")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", user.RoleAdmin)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(168*time.Hour).Unix(), expiresAt, 5)

	ctx, err := ContextWithToken(context.Background(), svc, token)
	require.NoError(t, err)

	p, err := PrincipalFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.Principal{ID: "user-1", Role: user.RoleAdmin}, p)
}

func TestContextWithTokenRejectsForeignSignature(t *testing.T) {
	other := NewJWTService("other-secret", "1h")
	token, _, err := other.GenerateAccessToken("user-1", user.RoleEmployee)
	require.NoError(t, err)

	_, err = ContextWithToken(context.Background(), NewJWTService("test-secret", "1h"), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	_, err := PrincipalFromContext(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestInvalidExpiration(t *testing.T) {
	_, _, err := NewJWTService("test-secret", "seven days").GenerateAccessToken("user-1", user.RoleEmployee)
	assert.Error(t, err)
}
