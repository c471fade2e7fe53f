package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenTTL bounds how long a session token is accepted.
const SessionTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	Generation uint64 `json:"gen"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a token naming the session generation it was
// issued for.
func GenerateSessionToken(secret string, generation uint64) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	now := time.Now()
	claims := sessionClaims{
		Generation: generation,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates tokenString and returns its session generation.
func ParseSessionToken(secret, tokenString string) (uint64, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims.Generation, nil
}
