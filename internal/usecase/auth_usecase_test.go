package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-gap/internal/config"
	"skill-gap/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func adminConfig(t *testing.T, password string) config.AdminConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return config.AdminConfig{Username: "hr-admin", PasswordHash: string(hash)}
}

func TestAuthUsecase_Login(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour)
	uc := NewAuthUsecase(adminConfig(t, "s3cret!"), svc, nil)

	res, err := uc.Login(context.Background(), LoginInput{Username: " hr-admin ", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "hr-admin", claims.Subject)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestAuthUsecase_Rejects(t *testing.T) {
	uc := NewAuthUsecase(adminConfig(t, "s3cret!"), jwt.NewHMACService("secret", time.Hour), nil)

	cases := []LoginInput{
		{Username: "hr-admin", Password: "wrong"},
		{Username: "someone", Password: "s3cret!"},
		{Username: "", Password: "s3cret!"},
		{Username: "hr-admin", Password: ""},
	}
	for _, in := range cases {
		_, err := uc.Login(context.Background(), in)
		assert.True(t, errors.Is(err, ErrInvalidCredentials), "input %+v", in)
	}
}

func TestAuthUsecase_Disabled(t *testing.T) {
	uc := NewAuthUsecase(config.AdminConfig{}, jwt.NewHMACService("secret", time.Hour), nil)
	_, err := uc.Login(context.Background(), LoginInput{Username: "a", Password: "b"})
	assert.True(t, errors.Is(err, ErrAuthDisabled))

	uc = NewAuthUsecase(adminConfig(t, "pw"), nil, nil)
	_, err = uc.Login(context.Background(), LoginInput{Username: "hr-admin", Password: "pw"})
	assert.True(t, errors.Is(err, ErrAuthDisabled))
}

func TestAuthUsecase_SigningFailure(t *testing.T) {
	uc := NewAuthUsecase(adminConfig(t, "pw"), jwt.NewHMACService("", time.Hour), nil)
	_, err := uc.Login(context.Background(), LoginInput{Username: "hr-admin", Password: "pw"})
	assert.True(t, errors.Is(err, ErrInternal))
}
