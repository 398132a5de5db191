package config

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

// Session storage drivers
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
)

type ServerConfig struct {
	Port               int    `toml:"port" env:"PORT, overwrite"`
	LogLevel           string `toml:"log_level" env:"LOG_LEVEL, overwrite"`
	LogPretty          bool   `toml:"log_pretty" env:"LOG_PRETTY, overwrite"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE, overwrite"`
}

type SessionConfig struct {
	Driver       string        `toml:"driver" env:"SESSION_DRIVER, overwrite"`
	Dir          string        `toml:"dir" env:"SESSION_DIR, overwrite"`
	Expiration   time.Duration `toml:"expiration" env:"SESSION_EXPIRATION, overwrite"`
	CookieSecure bool          `toml:"cookie_secure" env:"SESSION_COOKIE_SECURE, overwrite"`
}

type RedisConfig struct {
	Addr     string `toml:"addr" env:"REDIS_ADDR, overwrite"`
	Password string `toml:"password" env:"REDIS_PASSWORD, overwrite"`
	DB       int    `toml:"db" env:"REDIS_DB, overwrite"`
}

type DataConfig struct {
	Dir string `toml:"dir" env:"DATA_DIR, overwrite"` // bbolt preferences database
}

type JWTConfig struct {
	Secret string        `toml:"secret" env:"JWT_SECRET, overwrite"` // For API token signing
	TTL    time.Duration `toml:"ttl" env:"JWT_TTL, overwrite"`
}

type AuthConfig struct {
	BcryptCost int `toml:"bcrypt_cost" env:"BCRYPT_COST, overwrite"`
}

type SSLConfig struct {
	Enabled      bool   `toml:"enabled"`
	CertFile     string `toml:"cert_file"`     // Path to fullchain.pem
	KeyFile      string `toml:"key_file"`      // Path to privkey.pem
	Port         int    `toml:"port"`          // HTTPS port (default 443)
	HTTPPort     int    `toml:"http_port"`     // HTTP port for redirect (default 80)
	AutoRedirect bool   `toml:"auto_redirect"` // Redirect HTTP to HTTPS
	Domain       string `toml:"domain"`        // Domain name for HSTS
	HSTSMaxAge   int    `toml:"hsts_max_age"`  // Max age for HSTS in seconds
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Redis   RedisConfig   `toml:"redis"`
	Data    DataConfig    `toml:"data"`
	JWT     JWTConfig     `toml:"jwt"`
	Auth    AuthConfig    `toml:"auth"`
	SSL     SSLConfig     `toml:"ssl"`
}

// EnvPrefix is prepended to every environment override
const EnvPrefix = "DBC_"

// Default returns the configuration used when no file is present
func Default() *Config {
	var config Config

	config.Server.Port = 3000
	config.Server.LogLevel = "info"
	config.Server.RateLimitPerMinute = 10

	config.Session.Driver = DriverFile
	config.Session.Dir = "./sessions"
	config.Session.Expiration = 24 * time.Hour

	config.Redis.Addr = "localhost:6379"
	config.Data.Dir = "./data"
	config.JWT.TTL = time.Hour
	config.Auth.BcryptCost = 10

	// Default SSL configuration
	config.SSL.Port = 443
	config.SSL.HTTPPort = 80
	config.SSL.HSTSMaxAge = 31536000 // 1 year
	config.SSL.AutoRedirect = true

	return &config
}

// LoadConfig reads the TOML file at filepath (a missing file keeps the
// defaults), applies DBC_* environment overrides and validates the result.
func LoadConfig(filepath string) (*Config, error) {
	return load(context.Background(), filepath, envconfig.PrefixLookuper(EnvPrefix, envconfig.OsLookuper()))
}

func load(ctx context.Context, filepath string, lookuper envconfig.Lookuper) (*Config, error) {
	config := Default()

	if filepath != "" {
		if _, err := toml.DecodeFile(filepath, config); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath, err)
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   config,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Validate SSL configuration if enabled
	if config.SSL.Enabled {
		if err := config.ValidateSSL(); err != nil {
			return nil, fmt.Errorf("SSL configuration error: %w", err)
		}
	}

	return config, nil
}

// Validate checks the settings that have no safe fallback
func (c *Config) Validate() error {
	switch c.Session.Driver {
	case DriverMemory, DriverFile, DriverBolt, DriverRedis:
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}
	if c.Session.Driver == DriverRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis session driver requires redis.addr")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("session.expiration must be positive")
	}
	return nil
}

// ValidateSSL checks if the SSL configuration is valid
func (c *Config) ValidateSSL() error {
	if !c.SSL.Enabled {
		return nil
	}

	if c.SSL.CertFile == "" {
		return fmt.Errorf("SSL certificate file path is required")
	}

	if c.SSL.KeyFile == "" {
		return fmt.Errorf("SSL key file path is required")
	}

	// Try loading the certificates to verify they're valid
	_, err := tls.LoadX509KeyPair(c.SSL.CertFile, c.SSL.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to load SSL certificates: %w", err)
	}

	return nil
}

// GetSecurityHeaders returns a map of security headers based on the configuration
func (c *Config) GetSecurityHeaders() map[string]string {
	headers := make(map[string]string)

	if c.SSL.Enabled {
		if c.SSL.Domain != "" {
			headers["Strict-Transport-Security"] = fmt.Sprintf("max-age=%d; includeSubDomains", c.SSL.HSTSMaxAge)
		}
		headers["X-Content-Type-Options"] = "nosniff"
		headers["X-Frame-Options"] = "SAMEORIGIN"
		headers["Referrer-Policy"] = "strict-origin-when-cross-origin"
	}

	return headers
}
