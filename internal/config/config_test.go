package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("BLOGAPI_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("BLOGAPI_DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("BLOGAPI_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "postgres://localhost/blog", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
