// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq background job layer.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// CalendarProviderConfig provides settings for the external calendar provider.
type CalendarProviderConfig interface {
	GetCalendarAPIURL() string
	GetCalendarAPIKey() string
	IsCalendarProviderEnabled() bool
}

// BookingProviderConfig provides settings for the external booking-system provider.
type BookingProviderConfig interface {
	GetBookingAPIURL() string
	GetBookingAPIKey() string
	IsBookingProviderEnabled() bool
}

// NotifyConfig provides settings for the outbound WhatsApp gateway.
type NotifyConfig interface {
	GetNotifyGatewayURL() string
	GetNotifyGatewayKey() string
	GetNotifyDeviceID() string
}

// EmailConfig provides settings for confirmation email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// BreakerConfig provides settings for the outbound circuit breaker layer.
type BreakerConfig interface {
	GetBreakerFailureRatio() float64
	GetBreakerMinRequests() uint32
	GetBreakerOpenTimeout() time.Duration
	GetProviderCallTimeout() time.Duration
}

// BookingConfig provides booking-policy settings for the appointment service.
type BookingConfig interface {
	GetSlotStepMinutes() int
	GetReminderLeadTime() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	CalendarAPIURL string
	CalendarAPIKey string
	BookingAPIURL  string
	BookingAPIKey  string

	NotifyGatewayURL string
	NotifyGatewayKey string
	NotifyDeviceID   string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	BreakerFailureRatio float64
	BreakerMinRequests  uint32
	BreakerOpenTimeout  time.Duration
	ProviderCallTimeout time.Duration

	SlotStepMinutes  int
	ReminderLeadTime time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

func (c *Config) GetCalendarAPIURL() string       { return c.CalendarAPIURL }
func (c *Config) GetCalendarAPIKey() string       { return c.CalendarAPIKey }
func (c *Config) IsCalendarProviderEnabled() bool { return c.CalendarAPIURL != "" }
func (c *Config) GetBookingAPIURL() string        { return c.BookingAPIURL }
func (c *Config) GetBookingAPIKey() string        { return c.BookingAPIKey }
func (c *Config) IsBookingProviderEnabled() bool  { return c.BookingAPIURL != "" }

func (c *Config) GetNotifyGatewayURL() string { return c.NotifyGatewayURL }
func (c *Config) GetNotifyGatewayKey() string { return c.NotifyGatewayKey }
func (c *Config) GetNotifyDeviceID() string   { return c.NotifyDeviceID }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

func (c *Config) GetBreakerFailureRatio() float64      { return c.BreakerFailureRatio }
func (c *Config) GetBreakerMinRequests() uint32        { return c.BreakerMinRequests }
func (c *Config) GetBreakerOpenTimeout() time.Duration { return c.BreakerOpenTimeout }
func (c *Config) GetProviderCallTimeout() time.Duration {
	return c.ProviderCallTimeout
}

func (c *Config) GetSlotStepMinutes() int            { return c.SlotStepMinutes }
func (c *Config) GetReminderLeadTime() time.Duration { return c.ReminderLeadTime }

// =============================================================================
// Loading
// =============================================================================

// Load reads configuration from the environment, with .env support for
// local development. Required values missing in non-development environments
// produce an error rather than a silently broken process.
func Load() (*Config, error) {
	// Ignore error: .env is optional outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTAccessSecret: os.Getenv("JWT_ACCESS_SECRET"),
		CORSAllowAll:    getEnvBool("CORS_ALLOW_ALL", false),
		CORSOrigins:     splitCSV(os.Getenv("CORS_ORIGINS")),
		CORSAllowCreds:  getEnvBool("CORS_ALLOW_CREDENTIALS", true),

		RedisURL:         os.Getenv("REDIS_URL"),
		RedisTLSInsecure: getEnvBool("REDIS_TLS_INSECURE", false),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: getEnvInt("ASYNQ_CONCURRENCY", 10),

		CalendarAPIURL: os.Getenv("CALENDAR_API_URL"),
		CalendarAPIKey: os.Getenv("CALENDAR_API_KEY"),
		BookingAPIURL:  os.Getenv("BOOKING_API_URL"),
		BookingAPIKey:  os.Getenv("BOOKING_API_KEY"),

		NotifyGatewayURL: os.Getenv("NOTIFY_GATEWAY_URL"),
		NotifyGatewayKey: os.Getenv("NOTIFY_GATEWAY_KEY"),
		NotifyDeviceID:   os.Getenv("NOTIFY_DEVICE_ID"),

		EmailEnabled:     getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Salon Booking"),
		EmailFromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),

		BreakerFailureRatio: getEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
		BreakerMinRequests:  uint32(getEnvInt("BREAKER_MIN_REQUESTS", 5)),
		BreakerOpenTimeout:  getEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
		ProviderCallTimeout: getEnvDuration("PROVIDER_CALL_TIMEOUT", 10*time.Second),

		SlotStepMinutes:  getEnvInt("SLOT_STEP_MINUTES", 0),
		ReminderLeadTime: getEnvDuration("REMINDER_LEAD_TIME", 24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" && !strings.EqualFold(cfg.Env, "development") {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required outside development")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
