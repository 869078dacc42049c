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
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	content := `
server:
  addr: ":9000"
database:
  driver: postgres
social:
  friendListTtl: 30m
  maxPageSize: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FITSOCIAL_JWT_SECRET", "from-env")
	t.Setenv("FITSOCIAL_SERVER_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Social.FriendListTTL)
	assert.Equal(t, 50, cfg.Social.MaxPageSize)
	// 未出现在文件中的字段保持默认值
	assert.Equal(t, DefaultSocialConfig().DefaultPageSize, cfg.Social.DefaultPageSize)
	assert.Equal(t, DefaultRedisConfig(), cfg.Redis)
}
