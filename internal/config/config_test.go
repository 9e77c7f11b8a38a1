package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("MARKET_JWT_SECRET", "s3cret")
	t.Setenv("MARKET_DATABASE_DRIVER", "memory")
	t.Setenv("MARKET_MEDIA_DRIVER", "memory")
	t.Setenv("MARKET_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "vinted", cfg.Media.Root)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL())
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.EqualValues(t, 32<<20, cfg.Server.MaxMultipartMemory)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  postgres_dsn: postgres://localhost/market
media:
  driver: s3
  bucket: offers
  root: market
jwt:
  secret: abc
  ttl_hours: 2
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "offers", cfg.Media.Bucket)
	assert.Equal(t, "market", cfg.Media.Root)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "memory"},
			Media:    MediaConfig{Driver: "memory"},
			JWT:      JWTConfig{Secret: "x", TTLHours: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown database", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }},
		{"s3 without bucket", func(c *Config) { c.Media.Driver = "s3" }},
		{"unknown media", func(c *Config) { c.Media.Driver = "ftp" }},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }},
		{"zero ttl", func(c *Config) { c.JWT.TTLHours = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
