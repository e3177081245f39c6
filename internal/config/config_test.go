package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MYSQL_USER", "app")
	t.Setenv("MYSQL_PASSWORD", "pw")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 50, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.SeedCatalog)
	assert.Equal(t, "order.exchange", cfg.OrderExchange)
	assert.Equal(t, "app:pw@tcp(127.0.0.1:3306)/pharmacy?charset=utf8mb4&parseTime=True&loc=Local", cfg.DB.ConnString())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nDB_DRIVER=postgres\nMYSQL_USER=pg\nMYSQL_PASSWORD=pw\nMYSQL_PORT=5432\nTOKEN_TTL=30m\nSEED_CATALOG=false\n"), 0o600))

	// godotenv does not override what is already set
	t.Setenv("TOKEN_TTL", "2h")
	for _, k := range []string{"JWT_SECRET", "DB_DRIVER", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_PORT", "SEED_CATALOG"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.SeedCatalog)
	assert.Equal(t, "postgres://pg:pw@127.0.0.1:5432/pharmacy?sslmode=disable", cfg.DB.ConnString())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "oracle"}},
		{name: "bad int", env: map[string]string{"JWT_SECRET": "s", "DB_MAX_OPEN_CONNS": "many"}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "forever"}},
		{name: "admin without password", env: map[string]string{"JWT_SECRET": "s", "ADMIN_USER_ID": "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestConnString_DSNOverride(t *testing.T) {
	c := DatabaseConfig{Driver: "mysql", DSN: "custom-dsn", User: "ignored"}
	assert.Equal(t, "custom-dsn", c.ConnString())
}
