// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Auth      AuthConfig      `koanf:"auth"`
	Storage   StorageConfig   `koanf:"storage"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	PoolTimeout  time.Duration `koanf:"pool_timeout"`
}

// JWTConfig controls signing of personal access tokens. A zero TokenExpire
// issues tokens without an exp claim; they live until revoked.
type JWTConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	TokenExpire    time.Duration `koanf:"token_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
}

const (
	LogoutKeep          = "keep"
	LogoutRevokeCurrent = "revoke_current"
	LogoutRevokeAll     = "revoke_all"
)

type AuthConfig struct {
	LogoutPolicy string `koanf:"logout_policy"`
}

type StorageConfig struct {
	UploadDir         string   `koanf:"upload_dir"`
	PublicPath        string   `koanf:"public_path"`
	MaxImageSizeKB    int64    `koanf:"max_image_size_kb"`
	AllowedExtensions []string `koanf:"allowed_extensions"`
}

// MaxImageBytes is the upload ceiling in bytes.
func (s StorageConfig) MaxImageBytes() int64 {
	return s.MaxImageSizeKB * 1024
}

// RateLimitConfig applies per client IP. AuthRequests is the tighter
// allowance for the credential endpoints within the same window.
type RateLimitConfig struct {
	Requests     int           `koanf:"requests"`
	AuthRequests int           `koanf:"auth_requests"`
	Window       time.Duration `koanf:"window"`
	Burst        int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Load layers defaults, the optional YAML file, a .env file and the
// process environment, in that order of precedence.
func Load(configPath string) (*Config, error) {
	return load(configPath)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("default %s: %w", key, err)
		}
	}

	if configPath != "" {
		err := k.Load(file.Provider(configPath), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", configPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.Storage.AllowedExtensions = normalizeExtensions(c.Storage.AllowedExtensions)

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

var defaults = map[string]any{
	"app.name":        "Catalog API",
	"app.version":     "1.0.0",
	"app.environment": "development",

	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     "30s",
	"server.write_timeout":    "30s",
	"server.idle_timeout":     "120s",
	"server.shutdown_timeout": "15s",

	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "30m",
	"database.auto_migrate":       true,

	"redis.pool_size":      10,
	"redis.min_idle_conns": 5,
	"redis.dial_timeout":   "5s",
	"redis.pool_timeout":   "30s",

	"jwt.token_expire":     "0s",
	"jwt.issuer":           "catalog-backend",
	"jwt.audience":         "catalog-api",
	"jwt.private_key_path": "keys/private.pem",
	"jwt.public_key_path":  "keys/public.pem",

	"auth.logout_policy": LogoutKeep,

	"storage.upload_dir":         "public/uploads",
	"storage.public_path":        "/uploads",
	"storage.max_image_size_kb":  2048,
	"storage.allowed_extensions": []string{"jpeg", "png", "jpg", "gif"},

	"rate_limit.requests":      100,
	"rate_limit.auth_requests": 10,
	"rate_limit.window":        "1m",
	"rate_limit.burst":         20,

	"cors.allowed_origins":   []string{"http://localhost:3000"},
	"cors.allowed_methods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	"cors.allowed_headers":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	"cors.allow_credentials": true,
	"cors.max_age":           300,

	"log.level":  "info",
	"log.format": "json",

	"otel.enabled":      false,
	"otel.insecure":     true,
	"otel.sample_rate":  0.1,
	"otel.service_name": "catalog-backend",
}

// envSections are the config sections an environment variable may target:
// RATE_LIMIT_AUTH_REQUESTS becomes rate_limit.auth_requests.
var envSections = []string{
	"rate_limit", "database", "storage", "server", "redis",
	"cors", "otel", "auth", "jwt", "log", "app",
}

var envAliases = map[string]string{
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
}

// envKey maps a variable name onto a config path. Names outside the known
// sections map to "" and are skipped.
func envKey(name string) string {
	if key, ok := envAliases[name]; ok {
		return key
	}

	lower := strings.ToLower(name)
	for _, section := range envSections {
		if field, ok := strings.CutPrefix(lower, section+"_"); ok && field != "" {
			return section + "." + field
		}
	}
	return ""
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

type rule struct {
	broken  func(c *Config) bool
	message string
}

var rules = []rule{
	{func(c *Config) bool { return c.Database.URL == "" }, "DATABASE_URL is required"},
	{func(c *Config) bool { return c.Redis.URL == "" }, "REDIS_URL is required"},
	{func(c *Config) bool { return c.JWT.PrivateKeyPath == "" }, "JWT_PRIVATE_KEY_PATH is required"},
	{func(c *Config) bool { return c.JWT.PublicKeyPath == "" }, "JWT_PUBLIC_KEY_PATH is required"},
	{func(c *Config) bool { return c.JWT.TokenExpire < 0 }, "jwt.token_expire must not be negative"},
	{func(c *Config) bool { return !validLogoutPolicy(c.Auth.LogoutPolicy) }, "unknown auth.logout_policy"},
	{func(c *Config) bool { return strings.TrimSpace(c.Storage.UploadDir) == "" }, "STORAGE_UPLOAD_DIR is required"},
	{func(c *Config) bool { return c.Storage.MaxImageSizeKB <= 0 }, "storage.max_image_size_kb must be positive"},
	{func(c *Config) bool { return len(c.Storage.AllowedExtensions) == 0 }, "storage.allowed_extensions must not be empty"},
	{func(c *Config) bool {
		return c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*")
	}, "cors wildcard origin cannot be combined with credentials"},
	{func(c *Config) bool {
		return c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure
	}, "OTEL_INSECURE must be false in production"},
	{func(c *Config) bool {
		return c.RateLimit.Requests <= 0 || c.RateLimit.AuthRequests <= 0
	}, "rate_limit requests must be positive"},
	{func(c *Config) bool { return c.RateLimit.Window <= 0 }, "rate_limit.window must be positive"},
	{func(c *Config) bool {
		return c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0
	}, "server timeouts must be positive"},
}

// validate reports every broken rule, not just the first.
func (c *Config) validate() error {
	var errs []error
	for _, r := range rules {
		if r.broken(c) {
			errs = append(errs, errors.New(r.message))
		}
	}
	return errors.Join(errs...)
}

func validLogoutPolicy(p string) bool {
	switch p {
	case LogoutKeep, LogoutRevokeCurrent, LogoutRevokeAll:
		return true
	}
	return false
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
