package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
)

// Default server configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	DefaultConcurrency    = 0                // 0 means use GOMAXPROCS
)

// Environment variables read by ServerFromEnv.
const (
	EnvPort           = "COVERAGE_PORT"
	EnvReadTimeout    = "COVERAGE_READ_TIMEOUT"
	EnvWriteTimeout   = "COVERAGE_WRITE_TIMEOUT"
	EnvMaxRequestSize = "COVERAGE_MAX_REQUEST_SIZE"
	EnvConcurrency    = "COVERAGE_CONCURRENCY"
	EnvLogFile        = "COVERAGE_LOG_FILE"
	EnvThreshold      = "COVERAGE_THRESHOLD"
)

// Server holds HTTP server settings.
type Server struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int
	Concurrency    int
	LogFile        string
	Threshold      float64
}

// DefaultServer returns the built-in server settings.
func DefaultServer() Server {
	return Server{
		Port:           DefaultPort,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		MaxRequestSize: DefaultMaxRequestSize,
		Concurrency:    DefaultConcurrency,
		Threshold:      domain.DefaultThreshold,
	}
}

// ServerFromEnv returns the default settings overridden by any COVERAGE_*
// environment variables that are set.
func ServerFromEnv() (Server, error) {
	cfg := DefaultServer()
	var err error

	if cfg.Port, err = envInt(EnvPort, cfg.Port); err != nil {
		return cfg, err
	}
	if cfg.ReadTimeout, err = envDuration(EnvReadTimeout, cfg.ReadTimeout); err != nil {
		return cfg, err
	}
	if cfg.WriteTimeout, err = envDuration(EnvWriteTimeout, cfg.WriteTimeout); err != nil {
		return cfg, err
	}
	if cfg.MaxRequestSize, err = envInt(EnvMaxRequestSize, cfg.MaxRequestSize); err != nil {
		return cfg, err
	}
	if cfg.Concurrency, err = envInt(EnvConcurrency, cfg.Concurrency); err != nil {
		return cfg, err
	}
	if cfg.Threshold, err = envFloat(EnvThreshold, cfg.Threshold); err != nil {
		return cfg, err
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.LogFile = v
	}
	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
