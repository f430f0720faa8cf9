// Package auth signs and verifies the bearer tokens that gate the mutating
// API surface when authentication is enabled.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies client scoped JWT tokens.
type TokenIssuer struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenIssuer builds a token helper using the provided secret.
func NewTokenIssuer(secretKey string) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, errors.New("auth token secret cannot be empty")
	}
	return &TokenIssuer{
		secretKey: []byte(secretKey),
		ttl:       24 * time.Hour,
	}, nil
}

// WithTTL allows customising the expiration duration.
func (ti *TokenIssuer) WithTTL(ttl time.Duration) *TokenIssuer {
	if ttl > 0 {
		ti.ttl = ttl
	}
	return ti
}

// Issue creates a JWT for the provided client identifier.
func (ti *TokenIssuer) Issue(clientID string) (string, error) {
	if clientID == "" {
		return "", errors.New("client id required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"client_id": clientID,
		"exp":       now.Add(ti.ttl).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the JWT and extracts the client identifier.
func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	clientID, ok := claims["client_id"].(string)
	if !ok {
		return "", errors.New("invalid client_id claim")
	}
	return clientID, nil
}
