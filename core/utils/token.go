package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"meetly/core/config"
)

type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 access token for a user.
func GenerateToken(userID uuid.UUID) (string, time.Time, error) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.JWT.Secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret not configured")
	}

	expiresAt := time.Now().Add(time.Duration(cfg.JWT.ExpiryHours) * time.Hour)
	claims := TokenClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAndParseToken verifies signature and expiry and returns the claims.
func ValidateAndParseToken(tokenStr string) (*TokenClaims, error) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
