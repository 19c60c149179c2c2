package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/pkg/constants"
)

func validConfig() *config.Config {
	return &config.Config{
		Redis: config.RedisConfig{Addr: "localhost:6379"},
		Token: config.TokenConfig{
			SecretKey: "secret",
			Algorithm: constants.CipherAESGCM,
			TTL:       15 * time.Minute,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	missingSecret := validConfig()
	missingSecret.Token.SecretKey = ""
	assert.Error(t, missingSecret.Validate())

	badAlgorithm := validConfig()
	badAlgorithm.Token.Algorithm = "rot13"
	assert.Error(t, badAlgorithm.Validate())

	zeroTTL := validConfig()
	zeroTTL.Token.TTL = 0
	assert.Error(t, zeroTTL.Validate())

	noRedis := validConfig()
	noRedis.Redis.Addr = ""
	assert.Error(t, noRedis.Validate())

	brokersWithoutTopic := validConfig()
	brokersWithoutTopic.Audit.Brokers = []string{"kafka:9092"}
	assert.Error(t, brokersWithoutTopic.Validate())
}

func TestTokenConfig_EffectiveRefreshTTL(t *testing.T) {
	cfg := config.TokenConfig{TTL: 900 * time.Second}
	assert.Equal(t, 9000*time.Second, cfg.EffectiveRefreshTTL())

	cfg.RefreshTTL = time.Hour
	assert.Equal(t, time.Hour, cfg.EffectiveRefreshTTL())
}

func TestLoad_FromFileWithDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte("token:\n  secret_key: unit-test-secret\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))
	t.Chdir(dir)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "unit-test-secret", cfg.Token.SecretKey)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Everything unspecified falls back to a default.
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, constants.CipherAESGCM, cfg.Token.Algorithm)
	assert.Equal(t, constants.DefaultTokenTTL, cfg.Token.TTL)
	assert.Equal(t, constants.DefaultRevocationKeyPrefix, cfg.Token.RevocationKeyPrefix)
	assert.Equal(t, []string{constants.AttributeClientIP, constants.AttributeUserAgent},
		cfg.Fingerprint.RequiredAttributes)
}

func TestLoad_MissingSecretRefusesToStart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: info\n"), 0o600))
	t.Chdir(dir)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret_key")
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("token:\n  secret_key: file-secret\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("AUTHCORE_TOKEN_SECRET_KEY", "env-secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Token.SecretKey)
}
