package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"chalan-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.JWTConfig

// UserClaims represents the JWT claims for user authentication. The token
// is a pure claims carrier: routes trusting it do not re-check the user row,
// so an outstanding token stays valid until expiry.
type UserClaims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsRoot   bool   `json:"isRoot"`
	jwt.RegisteredClaims
}

// Initialize sets the signing configuration used by this package
func Initialize(c *config.JWTConfig) {
	cfg = c
}

// GenerateToken creates a signed JWT token carrying the user's identity
func GenerateToken(userID uint, username, role string, isRoot bool) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		IsRoot:   isRoot,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
