package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func parseToken(t *testing.T, tokenStr, secret string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}

func TestNewAccessToken(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "admin", nil, 60)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	claims := parseToken(t, tok.Token, "secret")
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	_, hasTrainer := claims["trainer_id"]
	assert.False(t, hasTrainer)
}

func TestNewAccessTokenTrainerClaim(t *testing.T) {
	trainerID := uint64(7)
	tok, err := NewAccessToken("secret", 43, "trainer", &trainerID, 60)
	assert.NoError(t, err)

	claims := parseToken(t, tok.Token, "secret")
	assert.Equal(t, "trainer", claims["role"])
	assert.Equal(t, float64(7), claims["trainer_id"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "admin", nil, 60)
	assert.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("trainer123", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "trainer123", hash)

	assert.True(t, VerifyPassword(hash, "trainer123"))
	assert.False(t, VerifyPassword(hash, "trainer124"))
}
