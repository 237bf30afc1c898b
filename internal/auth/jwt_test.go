package auth

import (
	"testing"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	user := models.User{ID: "8c1f0e8e-8d53-4c1e-9a3e-1f0f3b7e2c11", Role: models.RoleAdmin}

	signed, err := GenerateToken(user, "collector")
	require.NoError(t, err)

	_, claims, err := TokenClaims("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, "collector", claims["username"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
}

func TestTokenClaims_Rejects(t *testing.T) {
	valid, err := GenerateToken(models.User{ID: "u1", Role: models.RoleUser}, "u")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString(jwtSecret)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"missing bearer prefix": valid,
		"expired":               "Bearer " + expired,
		"wrong secret":          "Bearer " + foreign,
		"alg none":              "Bearer " + unsigned,
		"garbage":               "Bearer not-a-jwt",
		"empty":                 "",
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := TokenClaims(header)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAccessPass(t *testing.T) {
	pass, err := GenerateAccessPass(time.Hour)
	require.NoError(t, err)
	assert.True(t, ValidateAccessPass(pass))

	session, err := GenerateToken(models.User{ID: "u1"}, "u")
	require.NoError(t, err)
	assert.False(t, ValidateAccessPass(session), "a session token is not an access pass")
	assert.False(t, ValidateAccessPass("tampered"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
