package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Fatalf("expected mongo store, got %s", cfg.StoreDriver)
	}
	if cfg.Mongo.Database != "passenger_manifest" || cfg.Redis.Addr != "" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.SecureCookies() {
		t.Fatalf("cookies should not be secure in development by default")
	}
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"ENV":            "production",
		"TOKEN_TTL":      "30m",
		"BCRYPT_COST":    "10",
		"STORE_DRIVER":   "memory",
		"ADMIN_EMAIL":    "root@example.com",
		"ADMIN_PASSWORD": "longenough1",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 30*time.Minute || cfg.BcryptCost != 10 || cfg.StoreDriver != StoreMemory {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.SecureCookies() {
		t.Fatalf("cookies must be secure in production")
	}
}

func TestLoad_CookieSecureOverride(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s3cret",
		"ENV":           "production",
		"COOKIE_SECURE": "false",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SecureCookies() {
		t.Fatalf("COOKIE_SECURE=false should win")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bcrypt cost":  {"JWT_SECRET": "s", "BCRYPT_COST": "2"},
		"ttl":          {"JWT_SECRET": "s", "TOKEN_TTL": "-1m"},
		"store driver": {"JWT_SECRET": "s", "STORE_DRIVER": "postgres"},
		"half admin":   {"JWT_SECRET": "s", "ADMIN_EMAIL": "root@example.com"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
