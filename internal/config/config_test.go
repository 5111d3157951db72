package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carbonlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, DefaultCORSMaxAge, cfg.CORS.MaxAge)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  grpc_health_addr: ":9091"
  shutdown_timeout: 5s
storage:
  driver: file
  path: /var/lib/carbonlens/store.json
factors:
  file: factors.csv
logging:
  level: debug
  format: console
cors:
  allowed_origins: ["https://app.example.com"]
  max_age: 600
`)

	cfg, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, ":9091", cfg.Server.GRPCHealthAddr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout, "unset keys keep their defaults")
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "factors.csv", cfg.Factors.File)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		expectedError string
	}{
		{name: "bad yaml", content: "server: [", expectedError: "parsing config file"},
		{name: "unknown driver", content: "storage:\n  driver: postgres\n", expectedError: "unknown storage.driver"},
		{name: "file driver without path", content: "storage:\n  driver: file\n", expectedError: "storage.path is required"},
		{name: "unknown format", content: "logging:\n  format: xml\n", expectedError: "unknown logging.format"},
		{name: "empty addr", content: "server:\n  addr: \"\"\n", expectedError: "server.addr is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), zerolog.Nop())
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\nlogging:\n  level: warn\n")
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvStorageDriver, "file")
	t.Setenv(EnvStoragePath, "/tmp/store.json")
	t.Setenv(EnvShutdownTimeout, "3s")

	cfg, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/store.json", cfg.Storage.Path)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_CORSEnv(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedError string
		validate      func(t *testing.T, cfg CORSConfig, logs string)
	}{
		{
			name: "Allowed Origins - Specific",
			env: map[string]string{
				EnvCORSAllowedOrigins: "http://localhost:3000,https://app.example.com",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "Allowed Origins - Wildcard",
			env: map[string]string{
				EnvCORSAllowedOrigins: "*",
			},
			validate: func(t *testing.T, cfg CORSConfig, logs string) {
				assert.Empty(t, cfg.AllowedOrigins)
				assert.Contains(t, logs, "CORS wildcard origin (*) is insecure")
			},
		},
		{
			name: "Allowed Origins - Mixed Wildcard",
			env: map[string]string{
				EnvCORSAllowedOrigins: "foo.com, *, bar.com",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.Equal(t, []string{"foo.com", "bar.com"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "Allowed Origins - Whitespace",
			env: map[string]string{
				EnvCORSAllowedOrigins: " a.com , b.com ",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.Equal(t, []string{"a.com", "b.com"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "Allow Credentials",
			env: map[string]string{
				EnvCORSAllowedOrigins:   "a.com",
				EnvCORSAllowCredentials: "TRUE",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.True(t, cfg.AllowCredentials)
			},
		},
		{
			name: "Wildcard with Credentials",
			env: map[string]string{
				EnvCORSAllowedOrigins:   "*",
				EnvCORSAllowCredentials: "true",
			},
			expectedError: "cannot enable credentials with wildcard origin",
		},
		{
			name: "Max Age - Custom",
			env: map[string]string{
				EnvCORSMaxAge: "3600",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.Equal(t, 3600, cfg.MaxAge)
			},
		},
		{
			name: "Max Age - Zero",
			env: map[string]string{
				EnvCORSMaxAge: "0",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.Equal(t, 0, cfg.MaxAge)
			},
		},
		{
			name: "Max Age - Invalid",
			env: map[string]string{
				EnvCORSMaxAge: "invalid",
			},
			validate: func(t *testing.T, cfg CORSConfig, logs string) {
				assert.Equal(t, DefaultCORSMaxAge, cfg.MaxAge)
				assert.Contains(t, logs, "invalid CARBONLENS_CORS_MAX_AGE")
			},
		},
		{
			name: "Max Age - Negative",
			env: map[string]string{
				EnvCORSMaxAge: "-1",
			},
			validate: func(t *testing.T, cfg CORSConfig, _ string) {
				assert.Equal(t, DefaultCORSMaxAge, cfg.MaxAge)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			cfg, err := Load("", logger)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg.CORS, buf.String())
		})
	}
}

func TestLoad_CORSWildcardFromFile(t *testing.T) {
	path := writeConfig(t, "cors:\n  allowed_origins: [\"*\"]\n  allow_credentials: true\n")
	_, err := Load(path, zerolog.Nop())
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       LoggingConfig
		wantLevel zerolog.Level
		wantJSON  bool
	}{
		{name: "json info", cfg: LoggingConfig{Level: "info", Format: "json"}, wantLevel: zerolog.InfoLevel, wantJSON: true},
		{name: "debug", cfg: LoggingConfig{Level: "DEBUG"}, wantLevel: zerolog.DebugLevel, wantJSON: true},
		{name: "invalid level", cfg: LoggingConfig{Level: "loud"}, wantLevel: zerolog.InfoLevel, wantJSON: true},
		{name: "empty level", cfg: LoggingConfig{}, wantLevel: zerolog.InfoLevel, wantJSON: true},
		{name: "console", cfg: LoggingConfig{Level: "warn", Format: "console"}, wantLevel: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.cfg, &buf)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())

			logger.WithLevel(tt.wantLevel).Msg("hello")
			out := buf.String()
			assert.Contains(t, out, "hello")
			if tt.wantJSON {
				assert.Contains(t, out, `"service":"carbonlens"`)
			}
		})
	}
}
