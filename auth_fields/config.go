package auth_fields

import (
	"strings"
	"time"
)

// AuthConfig is the service configuration. Values come from config.yaml and can be
// overridden by environment variables.
type AuthConfig struct {
	Port  string `yaml:"port" env:"GOOGLE_AUTH_PORT"`
	Debug bool   `yaml:"debug" env:"GOOGLE_AUTH_DEBUG"`

	DatabasePath string `yaml:"database_path" env:"GOOGLE_AUTH_DB_PATH"`

	RedisAddr           string        `yaml:"redis_addr" env:"GOOGLE_AUTH_REDIS_ADDR"`
	RedisPassword       string        `yaml:"redis_password" env:"GOOGLE_AUTH_REDIS_PASSWORD"`
	CredentialsCacheTTL time.Duration `yaml:"credentials_cache_ttl" env:"GOOGLE_AUTH_CREDENTIALS_CACHE_TTL"`

	JWTKey    string        `yaml:"jwt_key" env:"GOOGLE_AUTH_JWT_KEY"`
	JWTTTL    time.Duration `yaml:"jwt_ttl" env:"GOOGLE_AUTH_JWT_TTL"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"GOOGLE_AUTH_JWT_ISSUER"`

	DefaultRoleID   uint          `yaml:"default_role_id" env:"GOOGLE_AUTH_DEFAULT_ROLE_ID"`
	ProviderTimeout time.Duration `yaml:"provider_timeout" env:"GOOGLE_AUTH_PROVIDER_TIMEOUT"`

	AdminKey      string `yaml:"admin_key" env:"GOOGLE_AUTH_ADMIN_KEY"`
	AdminUser     string `yaml:"admin_user" env:"GOOGLE_AUTH_ADMIN_USER"`
	AdminPassword string `yaml:"admin_password" env:"GOOGLE_AUTH_ADMIN_PASSWORD"`

	LogSamplingTickMs  int `yaml:"log_sampling_tick_ms" env:"GOOGLE_AUTH_LOG_SAMPLING_TICK_MS"`
	LogSamplingAfterMs int `yaml:"log_sampling_after_ms" env:"GOOGLE_AUTH_LOG_SAMPLING_AFTER_MS"`

	OtelEnabled        bool    `yaml:"otel_enabled" env:"GOOGLE_AUTH_OTEL_ENABLED"`
	OtelEndpoint       string  `yaml:"otel_endpoint" env:"GOOGLE_AUTH_OTEL_ENDPOINT"`
	OtelInsecure       bool    `yaml:"otel_insecure" env:"GOOGLE_AUTH_OTEL_INSECURE"`
	OtelServiceName    string  `yaml:"otel_service_name" env:"GOOGLE_AUTH_OTEL_SERVICE_NAME"`
	OtelServiceVersion string  `yaml:"otel_service_version" env:"GOOGLE_AUTH_OTEL_SERVICE_VERSION"`
	OtelSampleRate     float64 `yaml:"otel_sample_rate" env:"GOOGLE_AUTH_OTEL_SAMPLE_RATE"`

	// Optional bootstrap credentials, upserted into the singleton row on start.
	GoogleClientID     string   `yaml:"google_client_id" env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `yaml:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string   `yaml:"google_redirect_url" env:"GOOGLE_REDIRECT_URL"`
	GoogleScopes       []string `yaml:"google_scopes" env:"GOOGLE_SCOPES" envSeparator:","`
}

const (
	DefaultPort                = "8080"
	DefaultDatabasePath        = "googleauth.db"
	DefaultJWTTTL              = 30 * 24 * time.Hour
	DefaultJWTIssuer           = "googleauth"
	DefaultRoleID         uint = 1
	DefaultProviderTimeout     = 10 * time.Second
	DefaultCredentialsTTL      = time.Minute
)

// WithDefaults fills unset values.
func (c AuthConfig) WithDefaults() AuthConfig {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.JWTTTL <= 0 {
		c.JWTTTL = DefaultJWTTTL
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = DefaultJWTIssuer
	}
	if c.DefaultRoleID == 0 {
		c.DefaultRoleID = DefaultRoleID
	}
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = DefaultProviderTimeout
	}
	if c.CredentialsCacheTTL <= 0 {
		c.CredentialsCacheTTL = DefaultCredentialsTTL
	}
	return c
}

// HasGoogleBootstrap reports whether the config carries a full set of Google credentials.
func (c AuthConfig) HasGoogleBootstrap() bool {
	return strings.TrimSpace(c.GoogleClientID) != "" &&
		strings.TrimSpace(c.GoogleClientSecret) != "" &&
		strings.TrimSpace(c.GoogleRedirectURL) != "" &&
		len(c.GoogleScopes) > 0
}
