package jwt

import (
	"context"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    tokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// ContextWithToken verifies tokenString with s and stores it in ctx the way
// jwtauth.Verifier does, for callers outside the HTTP stack.
func ContextWithToken(ctx context.Context, s Service, tokenString string) (context.Context, error) {
	token, err := jwtauth.VerifyToken(s.JWTAuth(), tokenString)
	if err != nil {
		return ctx, auth.ErrInvalidToken
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}

// PrincipalFromContext resolves the caller from the verified access token in ctx.
func PrincipalFromContext(ctx context.Context) (user.Principal, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return user.Principal{}, auth.ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != tokenTypeAccess {
		return user.Principal{}, auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Principal{}, auth.ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return user.Principal{ID: userID, Role: user.Role(role)}, nil
}
