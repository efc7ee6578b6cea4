package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultSessionSecret = "default-secret-key-change-me"

// Supported values for DBDriver and SessionStore.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"
)

type Config struct {
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBPath        string `yaml:"db_path"`
	DBLogLevel    string `yaml:"db_log_level"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionStore  string `yaml:"session_store"`
	SessionSecret string `yaml:"session_secret"`
	GinMode       string `yaml:"gin_mode"`
	ServerAddr    string `yaml:"server_addr"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overridden by environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	base := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, base); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", or(base.DBDriver, DriverMySQL)),
		DBHost:        getEnv("DB_HOST", or(base.DBHost, "localhost")),
		DBPort:        getEnv("DB_PORT", or(base.DBPort, "3306")),
		DBUser:        getEnv("DB_USER", or(base.DBUser, "todouser")),
		DBPassword:    getEnv("DB_PASSWORD", or(base.DBPassword, "todopassword")),
		DBName:        getEnv("DB_NAME", or(base.DBName, "todo_api")),
		DBPath:        getEnv("DB_PATH", or(base.DBPath, "todo.db")),
		DBLogLevel:    getEnv("DB_LOG_LEVEL", or(base.DBLogLevel, "warn")),
		RedisHost:     getEnv("REDIS_HOST", or(base.RedisHost, "localhost")),
		RedisPort:     getEnv("REDIS_PORT", or(base.RedisPort, "6379")),
		SessionStore:  getEnv("SESSION_STORE", or(base.SessionStore, SessionStoreRedis)),
		SessionSecret: getEnv("SESSION_SECRET", or(base.SessionSecret, defaultSessionSecret)),
		GinMode:       getEnv("GIN_MODE", or(base.GinMode, "debug")),
		ServerAddr:    getEnv("SERVER_ADDR", or(base.ServerAddr, ":8080")),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", base.OpenAIAPIKey),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreCookie:
	default:
		return fmt.Errorf("unsupported session store %q", c.SessionStore)
	}

	if c.IsProduction() && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in release mode")
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
