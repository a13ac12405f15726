package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	access, err := NewAccessToken(secret, 42, "MANAGER", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, time.Minute)

	tok, err := jwt.Parse(access.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "MANAGER", claims["role"])
}

func TestNewRefreshToken(t *testing.T) {
	ref, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, ref.Raw, 96) // 48 random bytes hex encoded
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), ref.Exp, time.Minute)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, ref.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("token"))
	assert.NotEqual(t, h, HashRefreshRaw("other"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
