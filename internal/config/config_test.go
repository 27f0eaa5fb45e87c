package config

import (
	"testing"
	"time"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(KeyDiscordToken, " token ")
	t.Setenv(KeyStorageBackend, "")
	t.Setenv(KeyRemovalTimeout, "")
	t.Setenv(KeyRemovalDeleteMode, "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "token", cfg.DiscordToken)
	require.Equal(t, BackendJSON, cfg.StorageBackend)
	require.Equal(t, "data.json", cfg.DataFile)
	require.Equal(t, "thriftier", cfg.DB.Name)
	require.Equal(t, 2*time.Minute, cfg.RemovalTimeout)
	require.Equal(t, expense.DeleteByID, cfg.DeleteMode)
	require.NoError(t, cfg.RequireToken())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(KeyStorageBackend, "MySQL")
	t.Setenv(KeyDBUser, "root")
	t.Setenv(KeyDBPass, "root")
	t.Setenv(KeyDBHost, "localhost")
	t.Setenv(KeyDBPort, "3306")
	t.Setenv(KeyRemovalTimeout, "45s")
	t.Setenv(KeyRemovalDeleteMode, "match")
	t.Setenv(KeyHTTPAddr, ":8080")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, BackendMySQL, cfg.StorageBackend)
	require.Equal(t, "localhost", cfg.DB.Host)
	require.Equal(t, 45*time.Second, cfg.RemovalTimeout)
	require.Equal(t, expense.DeleteByMatch, cfg.DeleteMode)
	require.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadFlagOverride(t *testing.T) {
	t.Setenv(KeyStorageBackend, "json")

	v := viper.New()
	v.Set(KeyStorageBackend, "memory")

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.StorageBackend)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StorageBackend: BackendMemory,
			RemovalTimeout: time.Minute,
			DeleteMode:     expense.DeleteByID,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"memory backend", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.StorageBackend = "postgres" }, "invalid storage backend"},
		{"mysql without settings", func(c *Config) { c.StorageBackend = BackendMySQL }, "missing required DB environment variables"},
		{"mysql with dsn", func(c *Config) {
			c.StorageBackend = BackendMySQL
			c.DB.FullDSN = "root:root@tcp(localhost:3306)/thriftier?parseTime=true"
		}, ""},
		{"json without file", func(c *Config) { c.StorageBackend = BackendJSON }, "DATA_FILE"},
		{"bad delete mode", func(c *Config) { c.DeleteMode = "first" }, "invalid removal delete mode"},
		{"zero timeout", func(c *Config) { c.RemovalTimeout = 0 }, "must be at least 1s"},
		{"sub-second timeout", func(c *Config) { c.RemovalTimeout = 500 * time.Millisecond }, "must be at least 1s"},
		{"one second timeout", func(c *Config) { c.RemovalTimeout = time.Second }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadRejectsUnitlessTimeout(t *testing.T) {
	t.Setenv(KeyStorageBackend, "memory")
	t.Setenv(KeyRemovalTimeout, "120")

	_, err := Load(viper.New())
	require.ErrorContains(t, err, KeyRemovalTimeout)
}

func TestRequireToken(t *testing.T) {
	cfg := Config{}
	require.ErrorContains(t, cfg.RequireToken(), KeyDiscordToken)
}
