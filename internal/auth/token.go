// Package auth handles OAuth sign-in and JWT issuance.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"talkx/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs bearer tokens for authenticated sessions.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewTokenIssuer(cfg *config.Config) (*TokenIssuer, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = time.Hour * 24 * 7
	}
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		expiry: expiry,
	}, nil
}

// Issue creates a signed JWT for the given user.
func (t *TokenIssuer) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "talkx-api",
		"aud":      "talkx-client",
		"exp":      now.Add(t.expiry).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
