// Package config loads CarbonLens settings from a YAML file and CARBONLENS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultCORSMaxAge is the preflight cache lifetime used when none is configured.
const DefaultCORSMaxAge = 86400

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Factors FactorsConfig `yaml:"factors"`
	Logging LoggingConfig `yaml:"logging"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig controls the HTTP API and the gRPC health listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// GRPCHealthAddr enables the gRPC health service when non-empty.
	GRPCHealthAddr  string        `yaml:"grpc_health_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects the persistence driver.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// FactorsConfig points at an emission factor CSV. Empty means the embedded table.
type FactorsConfig struct {
	File string `yaml:"file"`
}

// LoggingConfig controls log level and output format (json or console).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CORSConfig controls cross-origin access to the HTTP API.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Storage: StorageConfig{Driver: "memory"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		CORS:    CORSConfig{MaxAge: DefaultCORSMaxAge},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. The result is validated.
func Load(path string, logger zerolog.Logger) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg, logger)

	if err := cfg.normalizeCORS(logger); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot be served.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "", "memory":
	case "file":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the file driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// normalizeCORS drops the wildcard origin and rejects it alongside credentials.
func (c *Config) normalizeCORS(logger zerolog.Logger) error {
	hasWildcard := false
	origins := make([]string, 0, len(c.CORS.AllowedOrigins))
	for _, o := range c.CORS.AllowedOrigins {
		trimmed := strings.TrimSpace(o)
		if trimmed == "*" {
			hasWildcard = true
			continue
		}
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORS.AllowedOrigins = origins

	if hasWildcard {
		logger.Warn().Msg("CORS wildcard origin (*) is insecure; use specific origins in production")
		if c.CORS.AllowCredentials {
			return errors.New("cannot enable credentials with wildcard origin (*); security risk")
		}
	}

	if c.CORS.MaxAge < 0 {
		logger.Warn().Int("value", c.CORS.MaxAge).Msg("invalid cors.max_age, using default")
		c.CORS.MaxAge = DefaultCORSMaxAge
	}

	logger.Debug().
		Strs("allowed_origins", c.CORS.AllowedOrigins).
		Int("max_age", c.CORS.MaxAge).
		Msg("CORS configuration applied")
	return nil
}
