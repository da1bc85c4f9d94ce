// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/config"
	"audiobook-admin/internal/identity"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/storage"
	"audiobook-admin/internal/upload"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:            "127.0.0.1",
		Port:            "0",
		Env:             "development",
		BackendURL:      "http://backend.test",
		BackendTimeout:  time.Second,
		UploadPresigner: config.PresignerAPI,
		S3Region:        "us-east-1",
		S3Bucket:        "audiobooks",
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("production is json", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&buf, "production", "info")
		log.Info("hello", "user", "u1")
		log.Debug("hidden")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "u1", entry["user"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("development is text", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&buf, "development", "debug")
		log.Debug("details", "n", 3)

		assert.Contains(t, buf.String(), "msg=details")
		assert.Contains(t, buf.String(), "n=3")
		assert.Contains(t, buf.String(), "app_test.go")
	})
}

func TestContainerBackendPresigner(t *testing.T) {
	injector := NewContainer(testConfig())

	presigner, err := do.Invoke[upload.Presigner](injector)
	require.NoError(t, err)
	client := do.MustInvoke[*backend.Client](injector)
	assert.Same(t, client, presigner)
}

func TestContainerS3Presigner(t *testing.T) {
	cfg := testConfig()
	cfg.UploadPresigner = config.PresignerS3
	cfg.S3Endpoint = "http://minio.test:9000"
	cfg.S3AccessKey = "access"
	cfg.S3SecretKey = "secret"

	presigner, err := do.Invoke[upload.Presigner](NewContainer(cfg))
	require.NoError(t, err)
	_, ok := presigner.(*storage.Client)
	assert.True(t, ok, "expected the S3 presigner, got %T", presigner)
}

func TestContainerS3PresignerIncomplete(t *testing.T) {
	cfg := testConfig()
	cfg.UploadPresigner = config.PresignerS3
	cfg.S3Endpoint = "http://minio.test:9000"
	cfg.S3AccessKey = "access"

	_, err := do.Invoke[upload.Presigner](NewContainer(cfg))
	assert.Error(t, err)
}

func TestContainerVerifier(t *testing.T) {
	v, err := do.Invoke[*identity.Verifier](NewContainer(testConfig()))
	require.NoError(t, err)
	assert.Nil(t, v, "no key configured means no verifier")

	cfg := testConfig()
	cfg.IDPHMACSecret = "secret"
	v, err = do.Invoke[*identity.Verifier](NewContainer(cfg))
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestContainerRendererAndLimiter(t *testing.T) {
	injector := NewContainer(testConfig())

	_, err := do.Invoke[*render.Renderer](injector)
	require.NoError(t, err)

	limiter, err := do.Invoke[*UploadLimiter](injector)
	require.NoError(t, err)
	assert.NotNil(t, limiter.RateLimiter)

	injector.Shutdown()
}
