package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables read by Load.
const (
	EnvAddr                 = "CARBONLENS_ADDR"
	EnvGRPCHealthAddr       = "CARBONLENS_GRPC_HEALTH_ADDR"
	EnvShutdownTimeout      = "CARBONLENS_SHUTDOWN_TIMEOUT"
	EnvStorageDriver        = "CARBONLENS_STORAGE_DRIVER"
	EnvStoragePath          = "CARBONLENS_STORAGE_PATH"
	EnvFactorsFile          = "CARBONLENS_FACTORS_FILE"
	EnvLogLevel             = "CARBONLENS_LOG_LEVEL"
	EnvLogFormat            = "CARBONLENS_LOG_FORMAT"
	EnvCORSAllowedOrigins   = "CARBONLENS_CORS_ALLOWED_ORIGINS"
	EnvCORSAllowCredentials = "CARBONLENS_CORS_ALLOW_CREDENTIALS"
	EnvCORSMaxAge           = "CARBONLENS_CORS_MAX_AGE"
)

func applyEnv(cfg *Config, logger zerolog.Logger) {
	setString(&cfg.Server.Addr, EnvAddr)
	setString(&cfg.Server.GRPCHealthAddr, EnvGRPCHealthAddr)
	setString(&cfg.Storage.Driver, EnvStorageDriver)
	setString(&cfg.Storage.Path, EnvStoragePath)
	setString(&cfg.Factors.File, EnvFactorsFile)
	setString(&cfg.Logging.Level, EnvLogLevel)
	setString(&cfg.Logging.Format, EnvLogFormat)

	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Server.ShutdownTimeout = d
		} else {
			logger.Warn().Str("value", v).Msg("invalid " + EnvShutdownTimeout + ", keeping configured value")
		}
	}

	if origins := os.Getenv(EnvCORSAllowedOrigins); origins != "" {
		cfg.CORS.AllowedOrigins = strings.Split(origins, ",")
	}

	if v := os.Getenv(EnvCORSAllowCredentials); v != "" {
		cfg.CORS.AllowCredentials = strings.ToLower(v) == "true"
	}

	if v := os.Getenv(EnvCORSMaxAge); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.CORS.MaxAge = parsed
		} else {
			logger.Warn().Str("value", v).Msg("invalid " + EnvCORSMaxAge + ", using default")
			cfg.CORS.MaxAge = DefaultCORSMaxAge
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = strings.TrimSpace(v)
	}
}
