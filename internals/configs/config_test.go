package configs

import (
	"strings"
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.Port != "3000" || cfg.JWTTTL != 12*time.Hour || cfg.DuplicatePolicy != "reuse" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.TopicMinWords != 1 || cfg.NoteBodyMinWords != 3 || cfg.RetentionDays != 0 {
		t.Fatalf("policies = %+v", cfg)
	}
	if len(cfg.CorsOrigins) != 1 {
		t.Fatalf("cors = %v", cfg.CorsOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("ATTENDANCE_TOPIC_EXACT_WORDS", "4")
	t.Setenv("ATTENDANCE_DUPLICATE_POLICY", "reject")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.Port != "8080" || cfg.JWTTTL != 30*time.Minute || cfg.TopicExactWords != 4 || cfg.DuplicatePolicy != "reject" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.CorsOrigins) != 2 || cfg.CorsOrigins[1] != "https://b.test" {
		t.Fatalf("cors = %v", cfg.CorsOrigins)
	}

	t.Setenv("ATTENDANCE_RETENTION_DAYS", "many")
	if _, err := LoadEnv(); err == nil {
		t.Fatalf("non-numeric retention days accepted")
	}
}

func TestLocationAndDSN(t *testing.T) {
	cfg := &Config{SchoolTimezone: "Europe/Istanbul", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if _, err := time.LoadLocation("Europe/Istanbul"); err == nil {
		if loc := cfg.Location(); loc.String() != "Europe/Istanbul" {
			t.Fatalf("location = %s", loc)
		}
	}
	cfg.SchoolTimezone = "Mars/Olympus"
	if loc := cfg.Location(); loc != time.UTC {
		t.Fatalf("fallback = %s", loc)
	}
	if dsn := cfg.DSN(); !strings.HasPrefix(dsn, "postgres://u:p@h:5432/d?sslmode=disable") {
		t.Fatalf("dsn = %s", dsn)
	}
}
