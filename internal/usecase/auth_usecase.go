package usecase

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"skill-gap/internal/config"
	"skill-gap/internal/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthUsecase interface {
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
}

// Auth checks the single admin account from configuration.
type Auth struct {
	admin  config.AdminConfig
	jwt    jwt.Service
	logger *zap.Logger
}

func NewAuthUsecase(admin config.AdminConfig, jwtSvc jwt.Service, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{admin: admin, jwt: jwtSvc, logger: logger}
}

func (u *Auth) Login(_ context.Context, in LoginInput) (LoginResult, error) {
	if !u.admin.Enabled() || u.jwt == nil {
		return LoginResult{}, ErrAuthDisabled
	}

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(u.admin.Username)) == 1
	// bcrypt runs for unknown usernames too.
	passErr := bcrypt.CompareHashAndPassword([]byte(u.admin.PasswordHash), []byte(in.Password))
	if !userOK || passErr != nil {
		u.logger.Warn("admin login rejected", zap.String("username", username))
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := u.jwt.GenerateAccessToken(u.admin.Username, jwt.RoleAdmin)
	if err != nil {
		u.logger.Error("issue access token failed", zap.Error(err))
		return LoginResult{}, ErrInternal
	}

	return LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp}, nil
}
