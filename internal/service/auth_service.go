package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"printcraft-service/internal/redisclient"
	"printcraft-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionTTL is how long an admin session token stays valid
const sessionTTL = 12 * time.Hour

// AuthService gates the admin panel with a single fixed credential pair.
// This is deliberately a toy check, not a security boundary.
type AuthService struct {
	username string
	password string
	redis    *redisclient.Client
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(username, password string, redis *redisclient.Client) *AuthService {
	return &AuthService{
		username: username,
		password: password,
		redis:    redis,
		logger:   util.GetLogger(),
	}
}

// Login checks the fixed credentials and issues a session token
func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(as.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(as.password)) == 1
	if !userOK || !passOK {
		as.logger.Warn("Admin login rejected", zap.String("username", username))
		return "", fmt.Errorf("invalid credentials")
	}

	token := uuid.New().String()
	if err := as.redis.SetSession(ctx, token, username, sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	as.logger.Info("Admin logged in", zap.String("username", username))
	return token, nil
}

// Validate reports whether a session token is active
func (as *AuthService) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	username, err := as.redis.GetSession(ctx, token)
	if err != nil {
		return false, err
	}
	return username != "", nil
}

// Logout invalidates a session token
func (as *AuthService) Logout(ctx context.Context, token string) error {
	return as.redis.DeleteSession(ctx, token)
}
