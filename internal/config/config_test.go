package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "CLIENT_URL", "POSTGRES_DSN", "MONGODB_URI", "MONGODB_DB", "APP_ENV"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, "http://localhost:3000", cfg.ClientURL)
	require.Equal(t, "dualstore", cfg.MongoDB)
	require.Equal(t, EnvDevelopment, cfg.Env)
	require.True(t, cfg.Development())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", EnvProduction)
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.False(t, cfg.Development())
}
