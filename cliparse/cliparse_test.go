// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected default token TTL 1h, got %s", cfg.TokenTTL)
	}
	if !cfg.PublicResults {
		t.Error("expected public results by default")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1", "-token-ttl", "30m"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("expected token TTL 30m, got %s", cfg.TokenTTL)
	}
}

func TestParseFlags_MissingSecret(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "file:test.db"})
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestParseFlags_BadDatabaseType(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "file:test.db", "-t", "mongodb", "-jwt-secret", "s1"})
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestParseFlags_PublicResultsEnv(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("JWT_SECRET", "s1")
	os.Setenv("PUBLIC_RESULTS", "false")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PublicResults {
		t.Error("expected PUBLIC_RESULTS=false to gate results")
	}
}
