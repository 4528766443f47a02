package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the explicit configuration passed into constructors at wiring
// time. Secrets and TTLs are read here once, never ad hoc from the process
// environment.
type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Auth / Security. Access and refresh tokens are signed with distinct
	// secrets by design.
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BcryptCost         int

	// Infrastructure
	DBAddr string // postgres DSN, or "memory" for the in-process store

	// Object storage (S3/MinIO)
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3UsePathStyle    bool
	S3Bucket          string
	CDNBaseURL        string

	// Upload constraints
	MaxUploadSize int64 // bytes
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("missing required env var: ACCESS_TOKEN_SECRET")
	}
	cfg.RefreshTokenSecret = os.Getenv("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("missing required env var: REFRESH_TOKEN_SECRET")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	// optional with defaults
	att, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = att

	rtt, err := getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = rtt

	cfg.BcryptCost = getEnvInt("BCRYPT_COST", 0) // 0 = bcrypt default

	cfg.S3Endpoint = getEnv("S3_ENDPOINT", "http://localhost:9000")
	cfg.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", "minioadmin")
	cfg.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", "minioadmin")
	cfg.S3Region = getEnv("S3_REGION", "us-east-1")
	cfg.S3UsePathStyle = getEnvBool("S3_USE_PATH_STYLE", true) // true for MinIO
	cfg.S3Bucket = getEnv("S3_BUCKET", "user-assets")
	cfg.CDNBaseURL = getEnv("CDN_BASE_URL", "http://localhost:9000/user-assets")

	cfg.MaxUploadSize = getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

// SecureCookies reports whether auth cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.Env == "prod" || c.Env == "staging"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
