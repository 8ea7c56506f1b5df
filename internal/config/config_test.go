package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growcore/internal/core"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, core.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "fs", cfg.Blob.Driver)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 32, cfg.Exports.QueueSize)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  allowed_origins: ["https://boroughbotanicals.example.com"]
  shutdown_timeout: 3s
  timezone: America/New_York
storage:
  driver: postgres
  postgres_dsn: postgres://grow@localhost/grow
blob:
  driver: s3
  s3:
    bucket: guides
    region: us-east-2
    path_style: true
mail:
  to_email: owner@example.com
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://boroughbotanicals.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, core.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "guides", cfg.Blob.S3.Bucket)
	assert.True(t, cfg.Blob.S3.PathStyle)
	assert.Equal(t, "owner@example.com", cfg.Mail.ToEmail)
	// unset keys keep their defaults
	assert.Equal(t, "./content/education.html", cfg.Education.Path)

	loc, err := cfg.Server.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GROWCORE_ADDR", ":7000")
	t.Setenv("GROWCORE_STORAGE_DRIVER", "memory")
	t.Setenv("GROWCORE_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GROWCORE_BLOB_DRIVER", "memory")
	t.Setenv("GROWCORE_EXPORT_QUEUE", "4")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("FROM_EMAIL", "shop@example.com")
	t.Setenv("TO_EMAIL", "owner@example.com")
	t.Setenv("SENDGRID_API_HOST", "https://api.eu.sendgrid.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, core.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Blob.Driver)
	assert.Equal(t, 4, cfg.Exports.QueueSize)
	assert.Equal(t, "SG.test", cfg.Mail.APIKey)
	assert.Equal(t, "shop@example.com", cfg.Mail.FromEmail)
	assert.Equal(t, "owner@example.com", cfg.Mail.ToEmail)
	assert.Equal(t, "https://api.eu.sendgrid.com", cfg.Mail.APIHost)

	t.Run("bad queue size", func(t *testing.T) {
		t.Setenv("GROWCORE_EXPORT_QUEUE", "lots")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROWCORE_TEST_FROM_FILE=file\nGROWCORE_TEST_PRESET=file\n"), 0o644))
	t.Setenv("GROWCORE_TEST_PRESET", "process")
	t.Setenv("GROWCORE_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("GROWCORE_TEST_FROM_FILE"))

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { _ = os.Unsetenv("GROWCORE_TEST_FROM_FILE") })
	assert.Equal(t, "file", os.Getenv("GROWCORE_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("GROWCORE_TEST_PRESET"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestSaveRoundTripKeepsSecretsOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mail.APIKey = "SG.secret"
	path := filepath.Join(t.TempDir(), "nested", "growcore.yaml")
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "SG.secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, loaded.Server)
}
