/*
Package config reads the relay's process-wide settings from the environment.
The values are loaded once at startup and handed to the components that need
them; nothing in the process mutates a Config after Load returns.
*/
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	DefaultPort        = 3000
	DefaultModel       = "gemini-1.5-flash"
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultTimeout     = 60 * time.Second
	DefaultServiceName = "APEXFIT AI Proxy"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
)

// ErrMissingAPIKey is returned to callers of the plan routes when the relay
// was started without GEMINI_API_KEY.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config holds the immutable runtime configuration.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int

	// APIKey authenticates calls to the Gemini API. An empty key does not stop
	// the process from starting; the plan routes reject requests instead.
	APIKey string

	// Model is the Gemini model id used in the generateContent path.
	Model string

	// BaseURL is the scheme+host of the Gemini REST API.
	BaseURL string

	// Timeout bounds a single upstream generateContent call.
	Timeout time.Duration

	// StructuredOutput asks Gemini for application/json output constrained by
	// a response schema, and switches recovery to strict parsing.
	StructuredOutput bool

	// ServiceName prefixes the liveness text served on GET /.
	ServiceName string

	LogLevel  string
	LogFormat string
}

// Load builds a Config from environment variables, falling back to defaults
// for anything missing or malformed.
func Load() Config {
	cfg := Config{
		Port:        DefaultPort,
		APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:       DefaultModel,
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		ServiceName: DefaultServiceName,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}

	// Attempt to parse port from environment; fallback if not set or invalid.
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		cfg.Port = port
	}

	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		cfg.Model = val
	}

	if val := os.Getenv("GEMINI_API_BASE_URL"); val != "" {
		cfg.BaseURL = strings.TrimRight(val, "/")
	}

	if d, ok := parseTimeout(os.Getenv("GEMINI_TIMEOUT")); ok {
		cfg.Timeout = d
	}

	if val := os.Getenv("GEMINI_STRUCTURED_OUTPUT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.StructuredOutput = b
		}
	}

	if val := os.Getenv("SERVICE_NAME"); val != "" {
		cfg.ServiceName = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.LogLevel = strings.ToLower(val)
	}

	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.LogFormat = strings.ToLower(val)
	}

	return cfg
}

// HasAPIKey reports whether the upstream credential is configured.
func (c Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (c Config) RequireAPIKey() error {
	if !c.HasAPIKey() {
		return ErrMissingAPIKey
	}
	return nil
}

// parseTimeout accepts either a Go duration ("45s", "2m") or a plain number
// of seconds. Non-positive values are rejected.
func parseTimeout(val string) (time.Duration, bool) {
	if val == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d, true
	}
	if n, err := strconv.Atoi(val); err == nil && n > 0 {
		return time.Duration(n) * time.Second, true
	}
	return 0, false
}
