// Package config loads the server configuration from an optional TOML file and
// the environment. Command-line flags are applied on top by cmd.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"anchain-mcp/internal/anchain"
)

// ErrMissingAPIKey is returned by Validate when stdio mode has no API key.
var ErrMissingAPIKey = errors.New("ANCHAIN_APIKEY environment variable is required")

// Duration lets TOML files write timeouts as "90s" or "2m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config contains server configuration values such as mode, listen address and API keys.
type Config struct {
	APIKey         string   `toml:"apiKey"`
	BaseURL        string   `toml:"baseURL"`
	Remote         bool     `toml:"remote"`
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	Token          string   `toml:"token"`
	TLSCertFile    string   `toml:"tlsCertFile"`
	TLSKeyFile     string   `toml:"tlsKeyFile"`
	RequestTimeout Duration `toml:"requestTimeout"`
	LogLevel       string   `toml:"logLevel"`
	LogFile        string   `toml:"logFile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        anchain.DefaultBaseURL,
		Host:           "127.0.0.1",
		Port:           8002,
		RequestTimeout: Duration{60 * time.Second},
		LogLevel:       "info",
	}
}

// Load starts from Default, decodes path when it is non-empty, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.APIKey = getEnv("ANCHAIN_APIKEY", c.APIKey)
	c.BaseURL = getEnv("ANCHAIN_BASE_URL", c.BaseURL)
	c.Host = getEnv("ANCHAIN_HOST", c.Host)
	c.Token = getEnv("ANCHAIN_MCP_TOKEN", c.Token)
	c.TLSCertFile = getEnv("TLS_CERT_FILE", c.TLSCertFile)
	c.TLSKeyFile = getEnv("TLS_KEY_FILE", c.TLSKeyFile)
	c.LogLevel = getEnv("ANCHAIN_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("ANCHAIN_LOG_FILE", c.LogFile)

	port, err := getEnvInt("ANCHAIN_PORT", c.Port)
	if err != nil {
		return err
	}
	c.Port = port
	if v := os.Getenv("ANCHAIN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANCHAIN_TIMEOUT: %w", err)
		}
		c.RequestTimeout = Duration{d}
	}
	return nil
}

// Validate reports configuration that would keep the server from starting.
func (c Config) Validate() error {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if !c.Remote && c.APIKey == "" {
		return ErrMissingAPIKey
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if c.Remote && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q", c.LogLevel)
		}
	}
	if c.RequestTimeout.Duration < 0 {
		return fmt.Errorf("invalid request timeout %s", c.RequestTimeout)
	}
	return nil
}

// Addr is the remote-mode listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}
