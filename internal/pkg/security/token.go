package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/magforge/pressdesk/internal/pkg/env"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("token used for wrong purpose")
)

// Claims is the JWT payload for both access and refresh tokens. Use
// distinguishes the two so a refresh token can never authenticate a
// request directly.
type Claims struct {
	UserID uint   `json:"uid"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", "dev-secret-change-me"))
}

func accessTTL() time.Duration {
	d, err := time.ParseDuration(env.GetEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func refreshTTL() time.Duration {
	d, err := time.ParseDuration(env.GetEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		return 168 * time.Hour
	}
	return d
}

// GenerateAccessToken issues a short-lived bearer token for the user.
func GenerateAccessToken(userID uint) (string, error) {
	return generateToken(userID, TokenTypeAccess, accessTTL())
}

// GenerateRefreshToken issues a long-lived token redeemable only at
// the refresh endpoint. RefreshTokenTTL tells callers how long the
// matching session row should live.
func GenerateRefreshToken(userID uint) (string, error) {
	return generateToken(userID, TokenTypeRefresh, refreshTTL())
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func RefreshTokenTTL() time.Duration {
	return refreshTTL()
}

func generateToken(userID uint, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ParseToken validates signature and expiry and enforces the expected use.
func ParseToken(tokenString, expectedUse string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Use != expectedUse {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}

// HashRefreshToken returns the hex SHA-256 of a refresh token; only
// this hash is persisted in user_sessions.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
