package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ENDPOINT_ADDR", ":9999")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_VALIDITY_DURATION", "30m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
}

func TestParseEnv_UnsetKeepsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	dsn := cfg.DatabaseDSN

	parseEnv(cfg)
	assert.Equal(t, dsn, cfg.DatabaseDSN)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-a", ":7070", "-d", "postgres://test", "-t", "15"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://test", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
}

func TestParseJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	payload := `{
		"endpoint_addr": ":6060",
		"database_dsn": "postgres://json",
		"secret_key": "json-secret",
		"token_validity_duration": "2h",
		"s3_root_user": "minio",
		"s3_root_password": "miniopass",
		"s3_bucket": "files",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://localhost:9000/"
	}`
	require.NoError(t, os.WriteFile(file, []byte(payload), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", file}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddr)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, "files", cfg.S3Bucket)
}
