package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	Env         string
	HTTPPort    string
	LogLevel    string
	DatabaseURL string
	JWTSecret   string
	SessionTTL  time.Duration

	GasURL     string
	GasTimeout time.Duration

	LineChannelID     string
	LineChannelSecret string
	LineCallbackURL   string
	LineAuthorizeURL  string
	LiffID            string

	GeocoderURL       string
	GeocoderUserAgent string

	DashboardRetryAttempts int
	DashboardRetryBackoff  time.Duration

	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		SessionTTL:             getDuration("SESSION_TTL", 30*24*time.Hour),
		GasURL:                 strings.TrimSpace(os.Getenv("GAS_WEB_APP_URL")),
		GasTimeout:             getDuration("GAS_TIMEOUT", 30*time.Second),
		LineChannelID:          os.Getenv("LINE_LOGIN_CHANNEL_ID"),
		LineChannelSecret:      os.Getenv("LINE_LOGIN_CHANNEL_SECRET"),
		LineCallbackURL:        os.Getenv("LINE_LOGIN_CALLBACK_URL"),
		LineAuthorizeURL:       getEnv("LINE_AUTHORIZE_URL", "https://access.line.me/oauth2/v2.1/authorize"),
		LiffID:                 os.Getenv("LIFF_ID"),
		GeocoderURL:            getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:      getEnv("GEOCODER_USER_AGENT", "lapin-pc-app/1.0"),
		DashboardRetryAttempts: getInt("DASHBOARD_RETRY_ATTEMPTS", 3),
		DashboardRetryBackoff:  getDuration("DASHBOARD_RETRY_BACKOFF", 1500*time.Millisecond),
		AllowedOrigins:         getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:         getDuration("HTTP_REQUEST_TIMEOUT", 60*time.Second),
		ReadTimeout:            getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:           getDuration("HTTP_WRITE_TIMEOUT", 65*time.Second),
		IdleTimeout:            getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:        getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.DashboardRetryAttempts < 1 {
		return cfg, errors.New("DASHBOARD_RETRY_ATTEMPTS must be at least 1")
	}
	if err := cfg.checkTimeouts(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// checkTimeouts rejects settings under which the dashboard retries cannot
// all run before the request is cut off.
func (c Config) checkTimeouts() error {
	if c.RequestTimeout <= 0 {
		return errors.New("HTTP_REQUEST_TIMEOUT must be positive")
	}
	if c.WriteTimeout > 0 && c.WriteTimeout <= c.RequestTimeout {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT (%s) must exceed HTTP_REQUEST_TIMEOUT (%s)", c.WriteTimeout, c.RequestTimeout)
	}
	if wait := c.DashboardBackoffTotal(); wait >= c.RequestTimeout {
		return fmt.Errorf("dashboard retry backoff (%s over %d attempts) does not fit in HTTP_REQUEST_TIMEOUT (%s)",
			wait, c.DashboardRetryAttempts, c.RequestTimeout)
	}
	return nil
}

// DashboardBackoffTotal is the time the dashboard retry spends waiting
// between attempts when every attempt fails.
func (c Config) DashboardBackoffTotal() time.Duration {
	var total time.Duration
	for a := 1; a < c.DashboardRetryAttempts; a++ {
		total += c.DashboardRetryBackoff * time.Duration(a)
	}
	return total
}

// GasConfigured reports whether the remote business API can be reached at all.
// When false every network action is disabled.
func (c Config) GasConfigured() bool {
	return c.GasURL != ""
}

// LineConfigured reports whether LINE Login can be offered.
func (c Config) LineConfigured() bool {
	return c.LineChannelID != "" && c.LineCallbackURL != ""
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
