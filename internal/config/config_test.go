// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads.
var allEnvVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "LOG_LEVEL",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"BACKEND_URL", "BACKEND_TIMEOUT",
	"IDP_HMAC_SECRET", "IDP_PUBLIC_KEY", "IDP_ISSUER", "IDP_SIGN_IN_URL",
	"UPLOAD_PRESIGNER", "UPLOAD_MAX_AUDIO_MB", "UPLOAD_MAX_IMAGE_MB",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
}

// clearEnv sets every variable to empty, which Load treats as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("DBUser", cfg.DBUser, "audiobooks")
	check("DBName", cfg.DBName, "audiobooks_admin")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("BackendURL", cfg.BackendURL, "http://localhost:8000")
	check("UploadPresigner", cfg.UploadPresigner, PresignerAPI)
	check("IDPSignInURL", cfg.IDPSignInURL, "")

	if cfg.BackendTimeout != 15*time.Second {
		t.Errorf("BackendTimeout = %v, want 15s", cfg.BackendTimeout)
	}
	if cfg.MaxAudioBytes() != 100<<20 {
		t.Errorf("MaxAudioBytes = %d, want %d", cfg.MaxAudioBytes(), 100<<20)
	}
	if cfg.MaxImageBytes() != 10<<20 {
		t.Errorf("MaxImageBytes = %d, want %d", cfg.MaxImageBytes(), 10<<20)
	}
}

// TestLoad_EnvOverrides verifies that environment variables override defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "testing")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("UPLOAD_MAX_AUDIO_MB", "250")
	t.Setenv("IDP_HMAC_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Env != "testing" {
		t.Errorf("Env = %q, want testing", cfg.Env)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Errorf("BackendURL = %q, trailing slash should be trimmed", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("BackendTimeout = %v, want 3s", cfg.BackendTimeout)
	}
	if cfg.MaxAudioBytes() != 250<<20 {
		t.Errorf("MaxAudioBytes = %d, want %d", cfg.MaxAudioBytes(), 250<<20)
	}
	if cfg.IDPHMACSecret != "s3cret" {
		t.Errorf("IDPHMACSecret = %q, want s3cret", cfg.IDPHMACSecret)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable BACKEND_TIMEOUT")
	}
}

func TestLoad_Presigner(t *testing.T) {
	t.Run("unknown presigner rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("UPLOAD_PRESIGNER", "ftp")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown presigner")
		}
	})

	t.Run("s3 presigner requires credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("UPLOAD_PRESIGNER", "S3")
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "S3_ENDPOINT") {
			t.Fatalf("expected S3 credential error, got %v", err)
		}
	})

	t.Run("s3 presigner with credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("UPLOAD_PRESIGNER", "s3")
		t.Setenv("S3_ENDPOINT", "https://s3.example.com")
		t.Setenv("S3_ACCESS_KEY", "AKIATEST")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.UploadPresigner != PresignerS3 {
			t.Errorf("UploadPresigner = %q, want s3", cfg.UploadPresigner)
		}
	})
}

// TestLoad_ProductionRequirements verifies production refuses insecure defaults.
func TestLoad_ProductionRequirements(t *testing.T) {
	t.Run("default password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("IDP_HMAC_SECRET", "s3cret")
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
			t.Fatalf("expected password error, got %v", err)
		}
	})

	t.Run("missing identity key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "strong")
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "IDP_") {
			t.Fatalf("expected identity key error, got %v", err)
		}
	})

	t.Run("complete production config", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "strong")
		t.Setenv("IDP_PUBLIC_KEY", "-----BEGIN PUBLIC KEY-----")
		if _, err := Load(); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("APP_PORT=7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that already exist, even empty ones.
	os.Unsetenv("APP_PORT")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("APP_PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want 7070 from .env", cfg.Port)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	want := "postgres://u:p@h:1/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestAddrAndIsDev(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "8080", Env: "development"}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for development")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("IsDev() = true for production")
	}
}
