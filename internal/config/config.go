// Package config reads process settings from the environment, optionally seeded from a .env file.
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

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendNone     = "none"
	BackendRabbitMQ = "rabbitmq"
	BackendKafka    = "kafka"
)

type Config struct {
	ListenAddr  string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
	TrustXFF    bool

	RateLimitBackend string
	RateLimitMax     int
	RateLimitWindow  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	EventsBackend string
	RabbitMQURL   string
	KafkaBrokers  []string
	KafkaTopic    string

	JWTSecret           string
	StripeSecretKey     string
	StripeAPIURL        string
	StripeWebhookSecret string
	AppURL              string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
}

// Load reads .env when present; real environment variables win over it.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		ListenAddr:  getenvDefault("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		LogFormat:   getenvDefault("LOG_FORMAT", "json"),
		CORSOrigins: getenvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustXFF:    getenvBoolDefault("TRUST_XFF", false),

		RateLimitBackend: strings.ToLower(getenvDefault("RATE_LIMIT_BACKEND", BackendMemory)),
		RateLimitMax:     getenvIntDefault("RATE_LIMIT_MAX", 5),
		RateLimitWindow:  getenvDurationDefault("RATE_LIMIT_WINDOW", time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvIntDefault("REDIS_DB", 0),
		RedisPrefix:   getenvDefault("REDIS_PREFIX", "ratelimit:leads"),

		EventsBackend: strings.ToLower(getenvDefault("EVENTS_BACKEND", BackendNone)),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		KafkaBrokers:  getenvList("KAFKA_BROKERS", nil),
		KafkaTopic:    getenvDefault("KAFKA_TOPIC", "leads.captured"),

		JWTSecret:           os.Getenv("SUPABASE_JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeAPIURL:        getenvDefault("STRIPE_API_URL", "https://api.stripe.com"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AppURL:              os.Getenv("APP_URL"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getenvIntDefault("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getenvDefault("MAIL_FROM", "Nexmart <hello@nexmart.io>"),
	}
}

// Validate reports settings that cannot work together. Missing portal secrets are not errors:
// that endpoint answers 500 on its own.
func (c Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.RateLimitMax < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow))
	}

	switch c.RateLimitBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when RATE_LIMIT_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend))
	}

	switch c.EventsBackend {
	case BackendNone:
	case BackendRabbitMQ:
		if c.RabbitMQURL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL is required when EVENTS_BACKEND=rabbitmq"))
		}
	case BackendKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when EVENTS_BACKEND=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend))
	}

	return errors.Join(errs...)
}

// ValidateWorker checks what the welcome worker needs.
func (c Config) ValidateWorker() error {
	var errs []error
	if c.RabbitMQURL == "" {
		errs = append(errs, errors.New("RABBITMQ_URL is required"))
	}
	if c.MailHost == "" {
		errs = append(errs, errors.New("MAIL_HOST is required"))
	}
	if c.AppURL == "" {
		errs = append(errs, errors.New("APP_URL is required"))
	}
	return errors.Join(errs...)
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getenvList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
