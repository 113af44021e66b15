package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env        string
	AppName    string
	AppVersion string
	HTTPPort   string

	DatabaseURL string

	JWTSecret    string
	JWTAlgorithm string

	AccessTokenUnit   string
	AccessTokenValue  int
	RefreshTokenUnit  string
	RefreshTokenValue int

	RedisHost string
	RedisPort int
	RedisDB   int

	CORSAllowedOrigins []string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		AppName:            getEnv("APP_NAME", "go-todo-rbac-service"),
		AppVersion:         getEnv("APP_VERSION", "0.0.1"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("SECRET_KEY"),
		JWTAlgorithm:       getEnv("ALGORITHM", "HS256"),
		AccessTokenUnit:    getEnv("ACCESS_UNIT", "hours"),
		AccessTokenValue:   getEnvInt("ACCESS_VALUE", 1),
		RefreshTokenUnit:   getEnv("REFRESH_UNIT", "days"),
		RefreshTokenValue:  getEnvInt("REFRESH_VALUE", 7),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnvInt("REDIS_PORT", 6379),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:        getEnv("MINIO_BUCKET", "user-avatars"),
		MinioUseSSL:        getEnvBool("MINIO_USE_SSL", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "SECRET_KEY must be at least 32 chars")
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, "ALGORITHM must be one of HS256, HS384, HS512")
	}
	if _, err := Lifetime(c.AccessTokenUnit, c.AccessTokenValue); err != nil {
		errs = append(errs, fmt.Sprintf("access token lifetime: %v", err))
	}
	if _, err := Lifetime(c.RefreshTokenUnit, c.RefreshTokenValue); err != nil {
		errs = append(errs, fmt.Sprintf("refresh token lifetime: %v", err))
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		errs = append(errs, "REDIS_PORT must be a valid port")
	}
	if c.RedisDB < 0 {
		errs = append(errs, "REDIS_DB must be >= 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// AccessTokenTTL returns the configured access token lifetime. Validate has
// already rejected unknown units, so the error is ignored here.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := Lifetime(c.AccessTokenUnit, c.AccessTokenValue)
	return d
}

func (c *Config) RefreshTokenTTL() time.Duration {
	d, _ := Lifetime(c.RefreshTokenUnit, c.RefreshTokenValue)
	return d
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Lifetime converts a unit+value pair into a duration. Recognized units:
// seconds, minutes, hours, days.
func Lifetime(unit string, value int) (time.Duration, error) {
	if value <= 0 {
		return 0, fmt.Errorf("value must be > 0, got %d", value)
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "seconds":
		return time.Duration(value) * time.Second, nil
	case "minutes":
		return time.Duration(value) * time.Minute, nil
	case "hours":
		return time.Duration(value) * time.Hour, nil
	case "days":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
