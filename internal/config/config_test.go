package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ONE_TIME_CODE", "123456")
		t.Setenv("ADMIN_EMAIL", "admin@moca.test")
		t.Setenv("ADMIN_PASSWORD", "adminpass")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t, "123456", cfg.OneTimeCode)
		assert.Equal(t, "admin@moca.test", cfg.AdminEmail)
		assert.Equal(t, "adminpass", cfg.AdminPassword)
	})

	t.Run("One time code falls back to default", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("ONE_TIME_CODE", "")

		cfg := LoadConfig()
		assert.Equal(t, defaultOneTimeCode, cfg.OneTimeCode)
	})
}
