package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("specfetch version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
	Cookies CookieConfig  `mapstructure:"cookies"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerMode string

const (
	ServerModeSSE   ServerMode = "sse"
	ServerModeSTDIO ServerMode = "stdio"
	ServerModeHTTP  ServerMode = "http"
)

type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	Host    string     `mapstructure:"host"`
	Mode    ServerMode `mapstructure:"mode"`
	Name    string     `mapstructure:"name"`
	Version string     `mapstructure:"version"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// APIConfig points at the route catalog and tunes the client.
type APIConfig struct {
	CatalogFile      string        `mapstructure:"catalog_file"`
	OpenAPIFile      string        `mapstructure:"openapi_file"`
	AdjustmentsFile  string        `mapstructure:"adjustments_file"`
	BaseURL          string        `mapstructure:"base_url"` // overrides the catalog's base_url
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRedirects     int           `mapstructure:"max_redirects"`
	MaxResponseBytes int64         `mapstructure:"max_response_bytes"` // 0 disables the cap
}

type CookieBackend string

const (
	CookieBackendMemory  CookieBackend = "memory"
	CookieBackendJar     CookieBackend = "jar"
	CookieBackendKeyring CookieBackend = "keyring"
	CookieBackendRedis   CookieBackend = "redis"
)

type CookieConfig struct {
	Backend CookieBackend     `mapstructure:"backend"`
	Values  map[string]string `mapstructure:"values"` // seeds memory and jar backends
	Keyring KeyringConfig     `mapstructure:"keyring"`
	Redis   RedisConfig       `mapstructure:"redis"`
}

type KeyringConfig struct {
	Service  string `mapstructure:"service"`
	FileDir  string `mapstructure:"file_dir"`
	Password string `mapstructure:"password"` // passphrase for the encrypted-file backend
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("mode", string(ServerModeSTDIO), "Server mode (stdio|sse|http)")
	fs.String("catalog-file", "", "Path to the route catalog (yaml, json or toml)")
	fs.String("openapi-file", "", "Path to an OpenAPI 2/3 document to derive routes from")
	fs.String("adjustments-file", "", "Path to the adjustments file")
	fs.String("base-url", "", "Override the API base URL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", string(ServerModeSTDIO))
	v.SetDefault("server.name", "specfetch")
	v.SetDefault("server.version", version)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	// Empty defaults make these keys visible to Unmarshal when set via env.
	v.SetDefault("api.catalog_file", "")
	v.SetDefault("api.openapi_file", "")
	v.SetDefault("api.adjustments_file", "")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.max_redirects", 10)
	v.SetDefault("api.max_response_bytes", 32<<20)
	v.SetDefault("cookies.backend", string(CookieBackendMemory))
	v.SetDefault("cookies.keyring.service", "specfetch")
	v.SetDefault("cookies.keyring.file_dir", "")
	v.SetDefault("cookies.keyring.password", "")
	v.SetDefault("cookies.redis.prefix", "specfetch:cookie:")
	v.SetDefault("metrics.namespace", "specfetch")
}

// Load reads config.yaml (optional), environment variables and flags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPECFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/specfetch")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	//Loading additionals config files
	if _, err := os.Stat("/config/config.yaml"); err == nil {
		v.SetConfigFile("/config/config.yaml")
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	applyFlags(v, &config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyFlags(v *viper.Viper, config *Config) {
	if mode := v.GetString("mode"); mode != "" {
		switch ServerMode(mode) {
		case ServerModeSSE, ServerModeSTDIO, ServerModeHTTP:
			config.Server.Mode = ServerMode(mode)
		}
	}
	if f := v.GetString("catalog-file"); f != "" {
		config.API.CatalogFile = f
	}
	if f := v.GetString("openapi-file"); f != "" {
		config.API.OpenAPIFile = f
	}
	if f := v.GetString("adjustments-file"); f != "" {
		config.API.AdjustmentsFile = f
	}
	if u := v.GetString("base-url"); u != "" {
		config.API.BaseURL = u
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.API.CatalogFile == "" && c.API.OpenAPIFile == "":
		return fmt.Errorf("a route catalog is required, please pass --catalog-file or --openapi-file (or SPECFETCH_API_CATALOG_FILE)")
	case c.API.CatalogFile != "" && c.API.OpenAPIFile != "":
		return fmt.Errorf("api.catalog_file and api.openapi_file are mutually exclusive")
	}
	if c.API.MaxRedirects < 0 {
		return fmt.Errorf("api.max_redirects must not be negative")
	}
	if c.API.MaxResponseBytes < 0 {
		return fmt.Errorf("api.max_response_bytes must not be negative")
	}
	switch c.Cookies.Backend {
	case CookieBackendMemory, CookieBackendJar, CookieBackendKeyring:
	case CookieBackendRedis:
		if c.Cookies.Redis.Addr == "" {
			return fmt.Errorf("cookies.redis.addr is required for the redis cookie backend")
		}
	default:
		return fmt.Errorf("unsupported cookie backend: %s", c.Cookies.Backend)
	}
	return nil
}
