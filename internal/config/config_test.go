package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func baseEnv() env.EnvSet {
	return env.EnvSet{
		"MATRIX_HOMESERVER_URL": "https://matrix.example.org",
		"MATRIX_ACCESS_TOKEN":   "syt_token",
	}
}

func TestParse_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse(baseEnv())
	req.NoError(err)
	req.Equal("./data/groupsync.db", cfg.DBPath)
	req.Equal(":8080", cfg.ListenAddr)
	req.Equal("info", cfg.LogLevel)
	req.Equal(30*time.Second, cfg.RequestTimeout)
	req.Equal(24*time.Hour, cfg.TokenTTL)
	req.Equal("admin", cfg.OperatorName)
	req.Empty(cfg.Domain)
	req.False(cfg.AuthEnabled())
}

func TestParse_Required(t *testing.T) {
	_, err := Parse(env.EnvSet{"MATRIX_HOMESERVER_URL": "https://matrix.example.org"})
	require.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]string
		wantErr string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "log level"},
		{"bad url", map[string]string{"MATRIX_HOMESERVER_URL": "matrix.example.org"}, "MATRIX_HOMESERVER_URL"},
		{"zero timeout", map[string]string{"MATRIX_REQUEST_TIMEOUT": "0s"}, "MATRIX_REQUEST_TIMEOUT"},
		{"short secret", map[string]string{
			"ADMIN_JWT_SECRET":       "short",
			"OPERATOR_PASSWORD_HASH": "$2a$10$hash",
		}, "ADMIN_JWT_SECRET"},
		{"secret without hash", map[string]string{
			"ADMIN_JWT_SECRET": strings.Repeat("s", 32),
		}, "OPERATOR_PASSWORD_HASH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := baseEnv()
			for k, v := range tt.set {
				set[k] = v
			}
			_, err := Parse(set)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_AuthEnabled(t *testing.T) {
	set := baseEnv()
	set["ADMIN_JWT_SECRET"] = strings.Repeat("s", 32)
	set["OPERATOR_PASSWORD_HASH"] = "$2a$10$hash"
	set["ADMIN_TOKEN_TTL"] = "1h"

	cfg, err := Parse(set)
	require.NoError(t, err)
	require.True(t, cfg.AuthEnabled())
	require.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groupsync.env")
	content := "MATRIX_HOMESERVER_URL=https://file.example.org\nMATRIX_ACCESS_TOKEN=from-file\nLISTEN_ADDR=:9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	// Set vars take precedence over the file.
	t.Setenv("MATRIX_ACCESS_TOKEN", "from-env")
	t.Setenv("MATRIX_HOMESERVER_URL", "")
	os.Unsetenv("MATRIX_HOMESERVER_URL")
	t.Setenv("LISTEN_ADDR", "")
	os.Unsetenv("LISTEN_ADDR")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://file.example.org", cfg.HomeserverURL)
	require.Equal(t, "from-env", cfg.AccessToken)
	require.Equal(t, ":9090", cfg.ListenAddr)

	_, err = Load(filepath.Join(dir, "missing.env"))
	require.Error(t, err)
}
