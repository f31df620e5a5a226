package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr":                   ":9000",
		"public_base_url":                 "https://api.example.com",
		"cors_allowed_origins":            []string{"https://app.example.com"},
		"database_dsn":                    "postgres://u:p@db:5432/x",
		"redis_addr":                      "redis:6379",
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "15m",
		"refresh_token_validity_duration": "72h",
		"s3_root_user":                    "user",
		"s3_root_password":                "password",
		"s3_bucket":                       "bucket",
		"smtp_host":                       "mail.example.com",
		"smtp_port":                       587,
		"mail_from":                       "noreply@example.com",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9000", cfg.EndpointAddr)
	assert.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseDSN)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "my_secret_key", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "user", cfg.S3RootUser)
	assert.Equal(t, "password", cfg.S3RootPassword)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, "mail.example.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "noreply@example.com", cfg.MailFrom)
}

func Test_parseJson_NoFileKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8000", cfg.EndpointAddr)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTokenValidityDuration)
}

func Test_parseJson_PartialFileKeepsRest(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"secret_key": "only_this",
	})
	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "only_this", cfg.SecretKey)
	assert.Equal(t, ":8000", cfg.EndpointAddr)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
}
