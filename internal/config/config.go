// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables (and an optional .env file). It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Presigner names accepted by UPLOAD_PRESIGNER.
const (
	PresignerAPI = "api"
	PresignerS3  = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// PostgreSQL connection (creation saga journal)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// REST backend
	BackendURL     string
	BackendTimeout time.Duration

	// Identity provider. Tokens are verified with the HMAC secret when set,
	// otherwise with the PEM-encoded RSA public key.
	IDPHMACSecret string
	IDPPublicKey  string
	IDPIssuer     string
	IDPSignInURL  string

	// Uploads
	UploadPresigner  string // "api" or "s3"
	UploadMaxAudioMB int64
	UploadMaxImageMB int64

	// S3-compatible object storage, only needed for the "s3" presigner.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// defaults mirrors the development docker-compose setup.
var defaults = map[string]any{
	"APP_HOST":            "0.0.0.0",
	"APP_PORT":            "8080",
	"APP_ENV":             "development",
	"LOG_LEVEL":           "debug",
	"POSTGRES_HOST":       "localhost",
	"POSTGRES_PORT":       "5432",
	"POSTGRES_USER":       "audiobooks",
	"POSTGRES_PASSWORD":   "changeme",
	"POSTGRES_DB":         "audiobooks_admin",
	"VALKEY_HOST":         "localhost",
	"VALKEY_PORT":         "6379",
	"VALKEY_PASSWORD":     "",
	"BACKEND_URL":         "http://localhost:8000",
	"BACKEND_TIMEOUT":     "15s",
	"IDP_HMAC_SECRET":     "",
	"IDP_PUBLIC_KEY":      "",
	"IDP_ISSUER":          "",
	"IDP_SIGN_IN_URL":     "",
	"UPLOAD_PRESIGNER":    PresignerAPI,
	"UPLOAD_MAX_AUDIO_MB": 100,
	"UPLOAD_MAX_IMAGE_MB": 10,
	"S3_ENDPOINT":         "",
	"S3_REGION":           "us-east-1",
	"S3_ACCESS_KEY":       "",
	"S3_SECRET_KEY":       "",
	"S3_BUCKET":           "audiobooks",
	"S3_PUBLIC_URL":       "",
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	timeout, err := time.ParseDuration(v.GetString("BACKEND_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Host:     v.GetString("APP_HOST"),
		Port:     v.GetString("APP_PORT"),
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBHost:     v.GetString("POSTGRES_HOST"),
		DBPort:     v.GetString("POSTGRES_PORT"),
		DBUser:     v.GetString("POSTGRES_USER"),
		DBPassword: v.GetString("POSTGRES_PASSWORD"),
		DBName:     v.GetString("POSTGRES_DB"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),

		BackendURL:     strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		BackendTimeout: timeout,

		IDPHMACSecret: v.GetString("IDP_HMAC_SECRET"),
		IDPPublicKey:  v.GetString("IDP_PUBLIC_KEY"),
		IDPIssuer:     v.GetString("IDP_ISSUER"),
		IDPSignInURL:  v.GetString("IDP_SIGN_IN_URL"),

		UploadPresigner:  strings.ToLower(v.GetString("UPLOAD_PRESIGNER")),
		UploadMaxAudioMB: v.GetInt64("UPLOAD_MAX_AUDIO_MB"),
		UploadMaxImageMB: v.GetInt64("UPLOAD_MAX_IMAGE_MB"),

		S3Endpoint:  v.GetString("S3_ENDPOINT"),
		S3Region:    v.GetString("S3_REGION"),
		S3AccessKey: v.GetString("S3_ACCESS_KEY"),
		S3SecretKey: v.GetString("S3_SECRET_KEY"),
		S3Bucket:    v.GetString("S3_BUCKET"),
		S3PublicURL: v.GetString("S3_PUBLIC_URL"),
	}

	if cfg.UploadPresigner != PresignerAPI && cfg.UploadPresigner != PresignerS3 {
		return nil, fmt.Errorf("UPLOAD_PRESIGNER must be %q or %q, got %q", PresignerAPI, PresignerS3, cfg.UploadPresigner)
	}
	if cfg.UploadPresigner == PresignerS3 && (cfg.S3Endpoint == "" || cfg.S3AccessKey == "") {
		return nil, fmt.Errorf("UPLOAD_PRESIGNER=s3 requires S3_ENDPOINT and S3_ACCESS_KEY")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.IDPHMACSecret == "" && cfg.IDPPublicKey == "" {
			return nil, fmt.Errorf("IDP_HMAC_SECRET or IDP_PUBLIC_KEY must be set in production")
		}
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables already set are left alone; missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// MaxAudioBytes returns the audio upload ceiling in bytes.
func (c *Config) MaxAudioBytes() int64 {
	return c.UploadMaxAudioMB << 20
}

// MaxImageBytes returns the image upload ceiling in bytes.
func (c *Config) MaxImageBytes() int64 {
	return c.UploadMaxImageMB << 20
}
