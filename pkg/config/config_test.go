package config

import (
	"testing"
	"time"

	"cartflow/pkg/merchant"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "OPENING_HOUR", "CLOSING_HOUR", "CLOSED_WEEKDAY", "MERCHANT_PHONE", "CART_TTL", "TLS_CERT", "TLS_KEY", "OTEL_PROBABILITY"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8443" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.Hours.OpeningHour != 19 || cfg.Hours.ClosingHour != 1 || cfg.Hours.ClosedWeekday != time.Monday {
		t.Fatalf("unexpected hours %+v", cfg.Hours)
	}
	if cfg.MerchantPhone != merchant.DefaultPhone {
		t.Fatalf("unexpected phone %q", cfg.MerchantPhone)
	}
	if cfg.CartTTL != 0 {
		t.Fatalf("unexpected ttl %s", cfg.CartTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENING_HOUR", "11")
	t.Setenv("CLOSING_HOUR", "15")
	t.Setenv("CLOSED_WEEKDAY", "sunday")
	t.Setenv("CART_TTL", "720h")
	t.Setenv("TLS_CERT", "")
	t.Setenv("TLS_KEY", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Hours.OpeningHour != 11 || cfg.Hours.ClosingHour != 15 || cfg.Hours.ClosedWeekday != time.Sunday {
		t.Fatalf("unexpected hours %+v", cfg.Hours)
	}
	if cfg.CartTTL != 720*time.Hour {
		t.Fatalf("unexpected ttl %s", cfg.CartTTL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"OPENING_HOUR":   "25",
		"CLOSING_HOUR":   "late",
		"CLOSED_WEEKDAY": "someday",
		"CART_TTL":       "forever",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	if d, err := parseWeekday("1"); err != nil || d != time.Monday {
		t.Fatalf("expected monday, got %v %v", d, err)
	}
	if d, err := parseWeekday("Tuesday"); err != nil || d != time.Tuesday {
		t.Fatalf("expected tuesday, got %v %v", d, err)
	}
}
