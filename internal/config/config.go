package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the kovin daemon
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Backend  BackendConfig  `toml:"backend"`
	Compiler CompilerConfig `toml:"compiler"`
	Network  NetworkConfig  `toml:"network"`
	Storage  StorageConfig  `toml:"storage"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  int    `toml:"read_timeout"`
	WriteTimeout int    `toml:"write_timeout"`
}

// BackendConfig holds the remote AI generation backend settings
type BackendConfig struct {
	BaseURL           string `toml:"base_url"`
	CompilerURL       string `toml:"compiler_url"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	SessionCookieName string `toml:"session_cookie_name"`
	SessionCookie     string `toml:"session_cookie"`
}

// CompilerConfig holds Solidity compiler request defaults
type CompilerConfig struct {
	DefaultVersion string `toml:"default_version"`
	OptimizerRuns  int    `toml:"optimizer_runs"`
}

// NetworkConfig describes the deployment target chain
type NetworkConfig struct {
	Name    string `toml:"name"`
	ChainID int64  `toml:"chain_id"`
}

// StorageConfig selects where store snapshots are persisted
type StorageConfig struct {
	Driver     string         `toml:"driver"`
	SQLitePath string         `toml:"sqlite_path"`
	Postgres   PostgresConfig `toml:"postgres"`
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"ssl_mode"`
}

// AuthConfig holds dashboard session settings
type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load loads configuration from TOML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.SetDefaults()

	return &config, nil
}

// Save saves configuration to TOML file
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// DatabaseURL returns the PostgreSQL connection URL
func (c *PostgresConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetDefaults sets default values for config
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		// generation calls can take minutes
		c.Server.WriteTimeout = 300
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:8000"
	}
	if c.Backend.CompilerURL == "" {
		c.Backend.CompilerURL = c.Backend.BaseURL + "/compiler"
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 180
	}
	if c.Backend.SessionCookieName == "" {
		c.Backend.SessionCookieName = "session"
	}
	if c.Compiler.DefaultVersion == "" {
		c.Compiler.DefaultVersion = "0.8.30+commit.73712a01"
	}
	if c.Compiler.OptimizerRuns == 0 {
		c.Compiler.OptimizerRuns = 200
	}
	if c.Network.Name == "" {
		c.Network.Name = "Sepolia"
	}
	if c.Network.ChainID == 0 {
		c.Network.ChainID = 11155111
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join("data", "kovin.db")
	}
	if c.Storage.Postgres.Host == "" {
		c.Storage.Postgres.Host = "localhost"
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = 5432
	}
	if c.Storage.Postgres.User == "" {
		c.Storage.Postgres.User = "postgres"
	}
	if c.Storage.Postgres.Database == "" {
		c.Storage.Postgres.Database = "kovin"
	}
	if c.Storage.Postgres.SSLMode == "" {
		c.Storage.Postgres.SSLMode = "disable"
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
