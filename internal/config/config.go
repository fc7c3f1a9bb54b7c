package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed by reference into each
// component; nothing reads the environment after Load returns.
type Config struct {
	Env        string
	ServerAddr string
	DBURI      string

	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration

	AccessCookieName  string
	RefreshCookieName string
	RefreshCookiePath string
	CookieSameSite    string

	UseS3         bool
	S3Bucket      string
	S3Region      string
	CloudFrontURL string
}

var requiredVars = []string{
	"DB_URI",
	"JWT_ACCESS_TOKEN_SECRET_KEY",
	"JWT_ACCESS_TOKEN_EXPIRY",
	"JWT_ACCESS_TOKEN_NAME",
	"JWT_REFRESH_TOKEN_SECRET_KEY",
	"JWT_REFRESH_TOKEN_EXPIRY",
	"JWT_REFRESH_TOKEN_NAME",
}

const minSecretLength = 32

// Load reads the environment (plus an optional .env file) and fails with one
// error naming every missing variable, so the process refuses to start on an
// incomplete configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	for _, key := range requiredVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		DBURI:             os.Getenv("DB_URI"),
		AccessSecret:      os.Getenv("JWT_ACCESS_TOKEN_SECRET_KEY"),
		RefreshSecret:     os.Getenv("JWT_REFRESH_TOKEN_SECRET_KEY"),
		AccessCookieName:  os.Getenv("JWT_ACCESS_TOKEN_NAME"),
		RefreshCookieName: os.Getenv("JWT_REFRESH_TOKEN_NAME"),
		RefreshCookiePath: getEnv("JWT_REFRESH_TOKEN_PATH", "/api/v1/auth/refresh-token"),
		CookieSameSite:    getEnv("COOKIE_SAME_SITE", "Lax"),
		CloudFrontURL:     os.Getenv("CLOUDFRONT_URL"),
	}

	for _, secret := range []string{cfg.AccessSecret, cfg.RefreshSecret} {
		if len(secret) < minSecretLength {
			return nil, fmt.Errorf("token secrets must be at least %d characters long (current: %d)", minSecretLength, len(secret))
		}
	}

	var err error
	if cfg.AccessExpiry, err = ParseExpiry(os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")); err != nil {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	if cfg.RefreshExpiry, err = ParseExpiry(os.Getenv("JWT_REFRESH_TOKEN_EXPIRY")); err != nil {
		return nil, fmt.Errorf("JWT_REFRESH_TOKEN_EXPIRY: %w", err)
	}

	if getEnv("USE_S3", "false") == "true" {
		cfg.UseS3 = true
		cfg.S3Bucket = os.Getenv("S3_BUCKET")
		cfg.S3Region = os.Getenv("S3_REGION")
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("USE_S3=true requires S3_BUCKET and S3_REGION")
		}
	}

	return cfg, nil
}

// ParseExpiry parses duration strings as used for token lifetimes. On top of
// time.ParseDuration forms ("15m", "12h") it accepts day and week suffixes
// ("7d", "2w"), which refresh-token lifetimes are usually written in.
func ParseExpiry(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if unit := s[len(s)-1]; unit == 'd' || unit == 'w' {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d := time.Duration(n) * 24 * time.Hour
		if unit == 'w' {
			d *= 7
		}
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
