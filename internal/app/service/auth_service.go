package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/kaduna-connect/directory-backend/config"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"github.com/kaduna-connect/directory-backend/pkg/util"
)

var (
	ErrCredentialsMissing = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionRevoked     = errors.New("session has been revoked")
)

// SessionRevoker remembers logged-out tokens until they expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AdminSession struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(username, password string) (*AdminSession, error)
	ValidateSession(ctx context.Context, token string) (*util.SessionClaims, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	username     string
	passwordHash string
	secret       string
	ttl          time.Duration
	revoker      SessionRevoker
}

// NewAuthService prepares the single admin account. A plain ADMIN_PASSWORD is
// hashed once here so login always goes through bcrypt.
func NewAuthService(cfg config.AdminConfig, revoker SessionRevoker) (AuthService, error) {
	hash := cfg.PasswordHash
	if hash == "" {
		if cfg.Password == "" {
			return nil, errors.New("admin password is not configured")
		}
		var err error
		hash, err = util.HashPassword(cfg.Password)
		if err != nil {
			return nil, err
		}
	} else if !util.IsBcryptHash(hash) {
		return nil, errors.New("ADMIN_PASSWORD_HASH is not a bcrypt hash")
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &authService{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       cfg.SessionSecret,
		ttl:          ttl,
		revoker:      revoker,
	}, nil
}

func (s *authService) Login(username, password string) (*AdminSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsMissing
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passOK := util.VerifyPassword(s.passwordHash, password)
	if !userOK || !passOK {
		logger.Warn("Admin login failed", map[string]interface{}{
			"username": username,
		})
		return nil, ErrInvalidCredentials
	}

	token, err := util.GenerateSessionToken(username, s.secret, s.ttl)
	if err != nil {
		logger.Error("Failed to sign admin session", err)
		return nil, err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"username": username,
	})
	return &AdminSession{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

func (s *authService) ValidateSession(ctx context.Context, token string) (*util.SessionClaims, error) {
	claims, err := util.ValidateSessionToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, token)
	if err != nil {
		// a cache outage must not lock the admin out
		logger.Warn("Could not check session revocation", map[string]interface{}{
			"error": err.Error(),
		})
		return claims, nil
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Logout revokes a still-valid token for the rest of its lifetime. Invalid or
// expired tokens need nothing.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateSessionToken(token, s.secret)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, token, remaining); err != nil {
		logger.Warn("Failed to revoke admin session", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	logger.Info("Admin logged out", map[string]interface{}{
		"username": claims.Username,
	})
	return nil
}
