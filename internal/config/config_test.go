package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, DriverMySQL, cfg.DBDriver)
	require.Equal(t, "3306", cfg.DBPort)
	require.Equal(t, SessionStoreRedis, cfg.SessionStore)
	require.Equal(t, ":8080", cfg.ServerAddr)
	require.False(t, cfg.IsProduction())
}

func TestLoadFile_YAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.yaml")
	content := []byte("db_driver: postgres\ndb_port: \"5432\"\nsession_store: cookie\ndb_name: from_file\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("DB_NAME", "from_env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, "5432", cfg.DBPort)
	require.Equal(t, SessionStoreCookie, cfg.SessionStore)
	require.Equal(t, "from_env", cfg.DBName)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "oracle", SessionStore: SessionStoreCookie}
	require.Error(t, cfg.Validate())

	cfg = &Config{DBDriver: DriverSQLite, SessionStore: "memcached"}
	require.Error(t, cfg.Validate())

	cfg = &Config{DBDriver: DriverSQLite, SessionStore: SessionStoreCookie, GinMode: "release", SessionSecret: defaultSessionSecret}
	require.Error(t, cfg.Validate())

	cfg.SessionSecret = "a-real-secret"
	require.NoError(t, cfg.Validate())
}
