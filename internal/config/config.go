// ABOUTME: Configuration management with storage backend selection
// ABOUTME: Loads settings from defaults, config file, .env and environment via viper

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harper/oneblog/internal/storage"
)

// ErrMissing is returned when a required configuration value is absent.
var ErrMissing = errors.New("missing required configuration")

// Config stores oneblog configuration.
type Config struct {
	Storage Storage `mapstructure:"storage"`
	LLM     LLM     `mapstructure:"llm"`
	Auth    Auth    `mapstructure:"auth"`
	Server  Server  `mapstructure:"server"`
	MCP     MCP     `mapstructure:"mcp"`
	Logging Logging `mapstructure:"logging"`
}

// Storage selects and locates the persistence backend.
type Storage struct {
	// Backend is "sqlite" (default), "markdown" or "postgres".
	Backend string `mapstructure:"backend"`
	// DataDir is the root directory for sqlite and markdown data.
	// Supports ~ expansion. Defaults to ~/.local/share/oneblog.
	DataDir     string `mapstructure:"data_dir"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// LLM configures the hosted model.
type LLM struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Auth holds the secrets for both guarded surfaces.
type Auth struct {
	SessionSecret string `mapstructure:"session_secret"`
	ServiceSecret string `mapstructure:"service_secret"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr string `mapstructure:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

// MCP configures the agent-tool server.
type MCP struct {
	BackendURL    string `mapstructure:"backend_url"`
	SessionToken  string `mapstructure:"session_token"`
	SessionSecret string `mapstructure:"session_secret"`
}

// Logging configures zerolog.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envAliases maps config keys to the unprefixed environment variables also accepted.
var envAliases = map[string][]string{
	"llm.api_key":          {"OPENAI_API_KEY"},
	"auth.service_secret":  {"MCP_SERVICE_SECRET"},
	"mcp.backend_url":      {"MCP_BACKEND_URL"},
	"mcp.session_token":    {"MCP_SESSION_TOKEN"},
	"mcp.session_secret":   {"MCP_SESSION_SECRET"},
	"storage.postgres_url": {"DATABASE_URL"},
}

// Load reads configuration. An empty configFile means the default XDG path;
// a missing default file is not an error.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	v.SetEnvPrefix("ONEBLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigFile(GetConfigPath())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case configFile == "" && os.IsNotExist(err):
			// Default path is optional
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.data_dir", "")
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.service_secret", "")
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.mode", "release")
	v.SetDefault("mcp.backend_url", "")
	v.SetDefault("mcp.session_token", "")
	v.SetDefault("mcp.session_secret", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Storage.Backend == "" {
		return "sqlite"
	}
	return c.Storage.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.Storage.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.Storage.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Store implementation based on the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.Store, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		return storage.NewSQLiteStore(filepath.Join(c.GetDataDir(), DefaultDBFilename))
	case "markdown":
		return storage.NewMarkdownStore(c.GetDataDir())
	case "postgres":
		url, err := c.RequirePostgresURL()
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(ctx, url)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

func require(value, key, env string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s (set %s)", ErrMissing, key, env)
	}
	return value, nil
}

// RequireSessionSecret returns the app session signing key.
func (c *Config) RequireSessionSecret() (string, error) {
	return require(c.Auth.SessionSecret, "auth.session_secret", "ONEBLOG_AUTH_SESSION_SECRET")
}

// RequireServiceSecret returns the shared service secret.
func (c *Config) RequireServiceSecret() (string, error) {
	return require(c.Auth.ServiceSecret, "auth.service_secret", "MCP_SERVICE_SECRET")
}

// RequireBackendURL returns the service surface base URL used by the MCP server.
func (c *Config) RequireBackendURL() (string, error) {
	return require(c.MCP.BackendURL, "mcp.backend_url", "MCP_BACKEND_URL")
}

// RequireMCPSessionSecret returns the operator session signing key.
func (c *Config) RequireMCPSessionSecret() (string, error) {
	return require(c.MCP.SessionSecret, "mcp.session_secret", "MCP_SESSION_SECRET")
}

// RequirePostgresURL returns the Postgres connection string.
func (c *Config) RequirePostgresURL() (string, error) {
	return require(c.Storage.PostgresURL, "storage.postgres_url", "DATABASE_URL")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "oneblog", "config.yaml")
}

// defaultDataDir returns the standard XDG data directory for oneblog.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "oneblog")
}
