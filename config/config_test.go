package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearSettings points the secrets directory at an empty temp dir and blanks
// every variable LoadConfig reads, so tests see only what they set.
func clearSettings(t *testing.T) {
	t.Helper()
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, name := range []string{
		"SERVER_PORT", "SERVER_HOST",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_URL",
		"JWT_SECRET", "S3_BUCKET_NAME",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearSettings(t)
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postpass")
	t.Setenv("DB_NAME", "spoonful")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	clearSettings(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required settings")
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	clearSettings(t)
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	for name, value := range map[string]string{
		"db_user":     "postgres",
		"db_password": "postpass",
		"db_name":     "spoonful",
		"jwt_secret":  "secret-from-file",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value+"\n"), 0o600))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-from-file", cfg.JWTSecret, "secret files are trimmed")
}

func TestEnvironmentOverridesSecret(t *testing.T) {
	clearSettings(t)
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-file"), 0o600))

	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postpass")
	t.Setenv("DB_NAME", "spoonful")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}
