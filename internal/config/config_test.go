package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
auth:
  access_token_secret: access
  refresh_token_secret: refresh
  strict_ownership: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "snapgram", cfg.Database.Name)
	assert.True(t, cfg.Auth.StrictOwnership)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
auth:
  access_token_secret: file-access
  refresh_token_secret: file-refresh
`)

	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MEDIA_BUCKET", "pictures")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "env-access", cfg.Auth.AccessTokenSecret)
	assert.Equal(t, "file-refresh", cfg.Auth.RefreshTokenSecret)
	assert.Equal(t, "pictures", cfg.Media.Bucket)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mongodb")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing access secret",
			cfg:     Config{Auth: AuthConfig{RefreshTokenSecret: "r"}, Database: DatabaseConfig{Driver: DriverMemory}},
			wantErr: "ACCESS_TOKEN_SECRET",
		},
		{
			name:    "missing refresh secret",
			cfg:     Config{Auth: AuthConfig{AccessTokenSecret: "a"}, Database: DatabaseConfig{Driver: DriverMemory}},
			wantErr: "REFRESH_TOKEN_SECRET",
		},
		{
			name:    "postgres without uri",
			cfg:     Config{Auth: AuthConfig{AccessTokenSecret: "a", RefreshTokenSecret: "r"}, Database: DatabaseConfig{Driver: DriverPostgres}},
			wantErr: "database uri",
		},
		{
			name:    "unknown driver",
			cfg:     Config{Auth: AuthConfig{AccessTokenSecret: "a", RefreshTokenSecret: "r"}, Database: DatabaseConfig{Driver: "sqlite"}},
			wantErr: "unknown database driver",
		},
		{
			name: "memory is valid",
			cfg:  Config{Auth: AuthConfig{AccessTokenSecret: "a", RefreshTokenSecret: "r"}, Database: DatabaseConfig{Driver: DriverMemory}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
