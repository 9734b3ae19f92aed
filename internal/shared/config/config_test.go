package config

import (
	"strings"
	"testing"
	"time"

	"planets-mapgen/internal/cloud"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GENERATOR_SYSTEM_COUNT", "")
	t.Setenv("GENERATOR_UNIVERSE_RADIUS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.Generator.Params(); got != cloud.DefaultParams() {
		t.Fatalf("generator params = %+v, want defaults %+v", got, cloud.DefaultParams())
	}
	if cfg.Redis.CacheTTL != time.Hour {
		t.Fatalf("cache ttl = %v, want 1h", cfg.Redis.CacheTTL)
	}
}

func TestLoadGeneratorOverrides(t *testing.T) {
	t.Setenv("GENERATOR_SYSTEM_COUNT", "12")
	t.Setenv("GENERATOR_UNIVERSE_RADIUS", "1e6")
	t.Setenv("GENERATOR_SEED", "77")
	t.Setenv("GENERATOR_CENTRAL_STAR", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := cfg.Generator.Params()
	if params.SystemCount != 12 || params.UniverseRadius != 1e6 || !params.CentralStar {
		t.Fatalf("unexpected params: %+v", params)
	}
	if cfg.Generator.Seed != 77 {
		t.Fatalf("seed = %d, want 77", cfg.Generator.Seed)
	}
	if params.RadiusMean != cloud.DefaultRadiusMean {
		t.Fatalf("radius mean should keep its default, got %v", params.RadiusMean)
	}
}

func TestLoadRejectsInvalidGenerator(t *testing.T) {
	t.Setenv("GENERATOR_SYSTEM_COUNT", "-3")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "system count") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAuth(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateAuth(); err == nil {
		t.Fatal("expected error for missing secret")
	}

	cfg.Auth.JWTSecret = "short"
	if err := cfg.ValidateAuth(); err == nil {
		t.Fatal("expected error for short secret")
	}

	cfg.Auth.JWTSecret = strings.Repeat("s", 32)
	if err := cfg.ValidateAuth(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "mapgen", SSLMode: "require"}
	want := "host=db port=5433 user=u password=p dbname=mapgen sslmode=require"
	if got := d.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestLoadRejectsNonFiniteGenerator(t *testing.T) {
	for _, value := range []string{"NaN", "+Inf", "1e308"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("GENERATOR_UNIVERSE_RADIUS", value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected GENERATOR_UNIVERSE_RADIUS=%s to be rejected", value)
			}
		})
	}
}
