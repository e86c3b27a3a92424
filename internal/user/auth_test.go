package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		token, err := GenerateJWT("pat@moca.test", RolePatient)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "pat@moca.test", claims.Email)
		assert.Equal(t, string(RolePatient), claims.Role)
		assert.NotNil(t, claims.ExpiresAt)
	})

	t.Run("Admin role carried in claims", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		token, err := GenerateJWT("admin@moca.test", RoleAdmin)
		require.NoError(t, err)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, string(RoleAdmin), claims.Role)
	})

	t.Run("Missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := GenerateJWT("pat@moca.test", RolePatient)
		assert.Error(t, err)
	})

	t.Run("Tampered token rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		token, err := GenerateJWT("pat@moca.test", RolePatient)
		require.NoError(t, err)

		_, err = ParseJWT(token + "x")
		assert.Error(t, err)
	})
}
