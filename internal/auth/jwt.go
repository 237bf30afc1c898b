package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const accessPassScope = "access"

var (
	jwtSecret = []byte("dev-secret-change-me")
	accessTTL = 15 * time.Minute

	ErrInvalidToken = errors.New("invalid token")
)

// Configure sets the signing secret and access token lifetime. Empty or zero values keep the defaults.
func Configure(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		accessTTL = ttl
	}
}

func GenerateToken(user models.User, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": username,
		"role":     user.Role,
		"exp":      time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// TokenClaims validates a "Bearer <jwt>" header value and returns its claims.
func TokenClaims(authorization string) (*jwt.Token, jwt.MapClaims, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return nil, nil, ErrInvalidToken
	}

	token, err := ParseToken(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil || !token.Valid {
		return nil, nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, ErrInvalidToken
	}
	if _, ok := claims["sub"].(string); !ok {
		return nil, nil, ErrInvalidToken
	}
	return token, claims, nil
}

// GenerateAccessPass issues the cookie value handed out by the access gate.
func GenerateAccessPass(ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"scope": accessPassScope,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func ValidateAccessPass(value string) bool {
	token, err := ParseToken(value)
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return ok && claims["scope"] == accessPassScope
}

// AccessCookieName is the cookie carrying the access gate pass.
const AccessCookieName = "ayres_app_access"
