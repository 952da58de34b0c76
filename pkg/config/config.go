// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cartflow/pkg/hours"
	"cartflow/pkg/merchant"
)

// Config is the service configuration read by Load.
type Config struct {
	Addr     string
	TLSCert  string
	TLSKey   string
	LogLevel string

	// Empty DatabaseURL / RedisAddr select the in-memory backends.
	DatabaseURL string
	RedisAddr   string
	CartTTL     time.Duration

	Hours         hours.Policy
	MerchantPhone string
	AdminToken    string

	OTELHost        string
	OTELProbability float64

	AMQPURL      string
	KafkaBrokers string
	KafkaTopic   string
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	opening, err := getInt("OPENING_HOUR", 19)
	if err != nil {
		return Config{}, err
	}
	closing, err := getInt("CLOSING_HOUR", 1)
	if err != nil {
		return Config{}, err
	}
	weekday, err := parseWeekday(getenv("CLOSED_WEEKDAY", "monday"))
	if err != nil {
		return Config{}, err
	}
	prob, err := strconv.ParseFloat(getenv("OTEL_PROBABILITY", "1.0"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("OTEL_PROBABILITY: %w", err)
	}
	ttl, err := time.ParseDuration(getenv("CART_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("CART_TTL: %w", err)
	}

	cfg := Config{
		Addr:            getenv("ADDR", ":8443"),
		TLSCert:         os.Getenv("TLS_CERT"),
		TLSKey:          os.Getenv("TLS_KEY"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CartTTL:         ttl,
		Hours:           hours.Policy{OpeningHour: opening, ClosingHour: closing, ClosedWeekday: weekday},
		MerchantPhone:   getenv("MERCHANT_PHONE", merchant.DefaultPhone),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		OTELHost:        os.Getenv("OTEL_HOST"),
		OTELProbability: prob,
		AMQPURL:         os.Getenv("RABBITMQ_URL"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:      getenv("KAFKA_TOPIC", "orders.placed"),
	}
	if err := cfg.Hours.Validate(); err != nil {
		return Config{}, err
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := getenv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("CLOSED_WEEKDAY: unknown weekday %q", s)
}
