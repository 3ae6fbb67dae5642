package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName    string
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	CORSOrigins    []string
	DevMode        bool

	JWTSecret string
	JWTIssuer string
	// OperatorIdentities are user ids or verified emails that bypass entitlement checks.
	OperatorIdentities []string

	// StoreTimeout bounds how long a public render waits for the tenant store
	// before falling back to demo content.
	StoreTimeout  time.Duration
	CacheMaxBytes int64
	CacheTTL      time.Duration

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	MediaURLTTL time.Duration
}

func Load() (*Config, error) {
	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "3500ms"))
	if err != nil {
		return nil, fmt.Errorf("parse STORE_TIMEOUT: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	mediaTTL, err := time.ParseDuration(getEnv("MEDIA_URL_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse MEDIA_URL_TTL: %w", err)
	}
	cacheMax, err := strconv.ParseInt(getEnv("CACHE_MAX_BYTES", "67108864"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_MAX_BYTES: %w", err)
	}

	cfg := &Config{
		ServiceName:        getEnv("SERVICE_NAME", "site-api"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		HTTPListenAddr:     getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DevMode:            getEnv("DEV_MODE", "") == "true",
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "agencysites"),
		OperatorIdentities: splitList(getEnv("OPERATOR_IDENTITIES", "")),
		StoreTimeout:       storeTimeout,
		CacheMaxBytes:      cacheMax,
		CacheTTL:           cacheTTL,
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		MediaURLTTL:        mediaTTL,
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.CacheMaxBytes <= 0 {
		return fmt.Errorf("CACHE_MAX_BYTES must be positive")
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_BUCKET requires S3_ACCESS_KEY and S3_SECRET_KEY")
	}
	return nil
}

// MediaEnabled reports whether bare media keys should be presigned.
func (c *Config) MediaEnabled() bool {
	return c.S3Bucket != ""
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
