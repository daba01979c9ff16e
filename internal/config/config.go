// Package config provides centralized configuration management for the service.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Decode  DecodeConfig
	Coerce  CoerceConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DecodeConfig holds request decoding limits.
type DecodeConfig struct {
	// MaxBodySize is the maximum accepted request body in bytes (default: 10MB)
	MaxBodySize int64 `env:"DECODE_MAX_BODY_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel decodes (default: 8)
	MaxConcurrent int `env:"DECODE_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long to wait for a decode slot (default: 5s)
	MaxWaitTime time.Duration `env:"DECODE_MAX_WAIT_TIME" default:"5s"`
}

// CoerceConfig holds the defaults applied to every request's coercion policy.
type CoerceConfig struct {
	// DateFormat is the date helper's input pattern (default: YYYY-MM-DD)
	DateFormat string `env:"COERCE_DATE_FORMAT" default:"YYYY-MM-DD"`

	// EmptyAs is a JSON literal substituted for empty values; unset means none
	EmptyAs string `env:"COERCE_EMPTY_AS"`

	// DateLenient falls back to common date layouts when the pattern fails (default: false)
	DateLenient bool `env:"COERCE_DATE_LENIENT" default:"false"`

	// TwoDigitYearPivot controls century selection for 2-digit years (default: 20)
	TwoDigitYearPivot int `env:"COERCE_TWO_DIGIT_YEAR_PIVOT" default:"20"`

	// NumberFields are numeric fields used when a request names none
	NumberFields []string `env:"COERCE_NUMBER_FIELDS"`

	// DateFields are date fields used when a request names none
	DateFields []string `env:"COERCE_DATE_FIELDS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
