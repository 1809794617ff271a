package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the course-search API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	CORS      CORSConfig      `yaml:"cors"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Favorites FavoritesConfig `yaml:"favorites"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CORSConfig holds the origin allowlist.
type CORSConfig struct {
	// AllowedOrigins is a comma-separated origin list. Empty allows all.
	AllowedOrigins string `yaml:"allowed_origins"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider          string      `yaml:"provider"` // bedrock, openai (default: bedrock)
	Model             string      `yaml:"model"`
	Region            string      `yaml:"region"`
	Dimensions        int         `yaml:"dimensions"`
	BaseURL           string      `yaml:"base_url"` // openai-compatible providers only
	APIKey            string      `yaml:"api_key"`
	ConnectTimeoutSec int         `yaml:"connect_timeout_sec"`
	ReadTimeoutSec    int         `yaml:"read_timeout_sec"`
	CacheSize         int         `yaml:"cache_size"`
	Cache             CacheConfig `yaml:"cache"`
}

// CacheConfig selects the embedding cache backend.
type CacheConfig struct {
	Driver   string   `yaml:"driver"` // memory (default), redis
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

// CatalogConfig holds document store connection settings.
type CatalogConfig struct {
	URI                string `yaml:"uri"`
	Database           string `yaml:"database"`
	Collection         string `yaml:"collection"`
	SearchIndex        string `yaml:"search_index"`
	ConnectTimeoutMS   int    `yaml:"connect_timeout_ms"`
	SelectionTimeoutMS int    `yaml:"server_selection_timeout_ms"`
}

// FavoritesConfig holds relational store settings.
type FavoritesConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSL      bool   `yaml:"ssl"`
	Table    string `yaml:"table"`
	PoolMin  int    `yaml:"pool_min"`
	PoolMax  int    `yaml:"pool_max"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "bedrock"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "amazon.titan-embed-text-v2:0"
	}
	if c.Embedding.Region == "" {
		c.Embedding.Region = "us-east-2"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1024
	}
	if c.Embedding.ConnectTimeoutSec <= 0 {
		c.Embedding.ConnectTimeoutSec = 5
	}
	if c.Embedding.ReadTimeoutSec <= 0 {
		c.Embedding.ReadTimeoutSec = 25
	}
	if c.Embedding.CacheSize <= 0 {
		c.Embedding.CacheSize = 512
	}
	if c.Embedding.Cache.Driver == "" {
		c.Embedding.Cache.Driver = "memory"
	}
	if c.Catalog.Database == "" {
		c.Catalog.Database = "learnia_db"
	}
	if c.Catalog.Collection == "" {
		c.Catalog.Collection = "courses"
	}
	if c.Catalog.SearchIndex == "" {
		c.Catalog.SearchIndex = "default"
	}
	if c.Catalog.ConnectTimeoutMS <= 0 {
		c.Catalog.ConnectTimeoutMS = 10000
	}
	if c.Catalog.SelectionTimeoutMS <= 0 {
		c.Catalog.SelectionTimeoutMS = 10000
	}
	if c.Favorites.Port <= 0 {
		c.Favorites.Port = 5432
	}
	if c.Favorites.Database == "" {
		c.Favorites.Database = "postgres"
	}
	if c.Favorites.User == "" {
		c.Favorites.User = "postgres"
	}
	if c.Favorites.Table == "" {
		c.Favorites.Table = "user_favorites"
	}
	if c.Favorites.PoolMin <= 0 {
		c.Favorites.PoolMin = 1
	}
	if c.Favorites.PoolMax <= 0 {
		c.Favorites.PoolMax = 5
	}
}

var tableNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Embedding.Provider {
	case "bedrock", "openai":
	default:
		return fmt.Errorf("embedding.provider must be \"bedrock\" or \"openai\", got %q", c.Embedding.Provider)
	}
	switch c.Embedding.Cache.Driver {
	case "memory":
	case "redis":
		if len(c.Embedding.Cache.Addrs) == 0 {
			return fmt.Errorf("embedding.cache.addrs is required for the redis cache driver")
		}
	default:
		return fmt.Errorf("embedding.cache.driver must be \"memory\" or \"redis\", got %q", c.Embedding.Cache.Driver)
	}
	if c.Catalog.URI == "" {
		return fmt.Errorf("catalog.uri is required")
	}
	if c.Favorites.Host == "" {
		return fmt.Errorf("favorites.host is required")
	}
	if c.Favorites.Password == "" {
		return fmt.Errorf("favorites.password is required")
	}
	if !tableNameRegex.MatchString(c.Favorites.Table) {
		return fmt.Errorf("favorites.table %q contains invalid characters", c.Favorites.Table)
	}
	if c.Favorites.PoolMin > c.Favorites.PoolMax {
		return fmt.Errorf("favorites.pool_min %d exceeds pool_max %d", c.Favorites.PoolMin, c.Favorites.PoolMax)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
