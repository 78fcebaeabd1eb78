package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	SessionTTL        time.Duration
	SessionCookieName string
	CookieSecure      bool
	StaticDir         string
	GeoIPDBPath       string
	DefaultLocale     string
	CORSOrigins       []string
	VisitTimezone     string
	VisitLocation     *time.Location
	RetentionDays     int
	SweepInterval     time.Duration
	SweepEnabled      bool
	RequestTimeout    time.Duration
	ResetCodeTTL      time.Duration
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	MailFrom          string
	MailOutboxDir     string
	AutoMigrate       bool
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionTTL:        time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "cc_session"),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),
		StaticDir:         strings.TrimSpace(os.Getenv("STATIC_DIR")),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "es"),
		CORSOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		VisitTimezone:     getEnv("VISITS_TIMEZONE", "America/Bogota"),
		RetentionDays:     getEnvInt("RETENTION_DAYS", 30),
		SweepInterval:     time.Hour * time.Duration(getEnvInt("SWEEP_INTERVAL_HOURS", 24)),
		SweepEnabled:      getEnvBool("SWEEP_ENABLED", true),
		RequestTimeout:    time.Second * time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 5)),
		ResetCodeTTL:      time.Minute * time.Duration(getEnvInt("RESET_CODE_TTL_MINUTES", 15)),
		SMTPHost:          strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUsername:      os.Getenv("SMTP_USERNAME"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		MailFrom:          getEnv("MAIL_FROM", "no-reply@campusconnect.local"),
		MailOutboxDir:     getEnv("MAIL_OUTBOX_DIR", "./var/outbox"),
		AutoMigrate:       getEnvBool("AUTO_MIGRATE", true),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(cfg.VisitTimezone)
	if err != nil {
		return nil, fmt.Errorf("VISITS_TIMEZONE %q: %w", cfg.VisitTimezone, err)
	}
	cfg.VisitLocation = loc

	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 24 * time.Hour
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
