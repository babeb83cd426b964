package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Supported DATA_BACKEND values.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds backend configuration.
type Config struct {
	Port          string
	IsProduction  bool
	DataBackend   string
	DatabaseURL   string
	SQLiteDBPath  string
	EnableDBCheck bool

	AuthEnabled        bool
	JWTSecret          string
	APIKeyHash         string
	CORSAllowedOrigins []string

	MaxUploadBytes int64
	ChatRateLimit  string // ulule formatted rate, e.g. "20-M"

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AMQPURL      string
	AMQPExchange string

	ShutdownTimeout time.Duration
}

// ClientConfig holds configuration for the terminal client.
type ClientConfig struct {
	APIBaseURL        string
	APIToken          string
	SpendingLimit     decimal.Decimal
	GaugePollInterval time.Duration
	HTTPTimeout       time.Duration
	LogFile           string
}

// newViper loads .env (if present) and binds environment variables over defaults.
func newViper(defaults map[string]any) *viper.Viper {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// LoadConfig loads backend configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	v := newViper(map[string]any{
		"PORT":                 "8080",
		"IS_PRODUCTION":        false,
		"DATA_BACKEND":         BackendMemory,
		"PGSQL_URL":            "",
		"SQLITE_DB_PATH":       "./data/finance.db",
		"ENABLE_DB_CHECK":      false,
		"AUTH_ENABLED":         false,
		"JWT_SECRET":           insecureJWTSecret,
		"API_KEY_HASH":         "",
		"CORS_ALLOWED_ORIGINS": "*",
		"MAX_UPLOAD_BYTES":     10 << 20,
		"CHAT_RATE_LIMIT":      "20-M",
		"OPENAI_API_KEY":       "",
		"OPENAI_MODEL":         "",
		"OPENAI_BASE_URL":      "",
		"AMQP_URL":             "",
		"AMQP_EXCHANGE":        "finance.transactions",
		"SHUTDOWN_TIMEOUT":     "10s",
	})

	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		DataBackend:        strings.ToLower(strings.TrimSpace(v.GetString("DATA_BACKEND"))),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		SQLiteDBPath:       v.GetString("SQLITE_DB_PATH"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		AuthEnabled:        v.GetBool("AUTH_ENABLED"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		APIKeyHash:         v.GetString("API_KEY_HASH"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		ChatRateLimit:      v.GetString("CHAT_RATE_LIMIT"),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		OpenAIModel:        v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
		AMQPURL:            v.GetString("AMQP_URL"),
		AMQPExchange:       v.GetString("AMQP_EXCHANGE"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.AuthEnabled && cfg.JWTSecret == insecureJWTSecret {
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
		slog.Warn("OPENAI_API_KEY not set. /chat will answer 503.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ChatEnabled reports whether a language model endpoint is configured.
func (c *Config) ChatEnabled() bool {
	return c.OpenAIAPIKey != "" || c.OpenAIBaseURL != ""
}

// Validate validates the configuration and returns every problem found at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendPostgres && c.DatabaseURL == "" {
		problems = append(problems, "PGSQL_URL is required when using the postgres backend")
	}
	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		problems = append(problems, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
	}

	if c.AuthEnabled && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET cannot be empty when AUTH_ENABLED is true")
	}
	if c.AuthEnabled && c.IsProduction && c.JWTSecret == insecureJWTSecret {
		problems = append(problems, "JWT_SECRET must be changed in production")
	}

	if c.MaxUploadBytes <= 0 {
		problems = append(problems, fmt.Sprintf("invalid MAX_UPLOAD_BYTES %d: must be positive", c.MaxUploadBytes))
	}
	if c.ChatRateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.ChatRateLimit); err != nil {
			problems = append(problems, fmt.Sprintf("invalid CHAT_RATE_LIMIT '%s': %v", c.ChatRateLimit, err))
		}
	}
	if c.OpenAIBaseURL != "" {
		if u, err := url.Parse(c.OpenAIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid OPENAI_BASE_URL '%s'", c.OpenAIBaseURL))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid SHUTDOWN_TIMEOUT %v: must be positive", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// LoadClientConfig loads the terminal client configuration.
func LoadClientConfig() (*ClientConfig, error) {
	v := newViper(map[string]any{
		"API_BASE_URL":        "http://localhost:8080",
		"API_TOKEN":           "",
		"SPENDING_LIMIT":      "1200",
		"GAUGE_POLL_INTERVAL": "500ms",
		"HTTP_TIMEOUT":        "30s",
		"TUI_LOG_FILE":        "finance_tui.log",
	})

	limit, err := decimal.NewFromString(v.GetString("SPENDING_LIMIT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPENDING_LIMIT '%s': %w", v.GetString("SPENDING_LIMIT"), err)
	}

	cfg := &ClientConfig{
		APIBaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		APIToken:          v.GetString("API_TOKEN"),
		SpendingLimit:     limit,
		GaugePollInterval: v.GetDuration("GAUGE_POLL_INTERVAL"),
		HTTPTimeout:       v.GetDuration("HTTP_TIMEOUT"),
		LogFile:           v.GetString("TUI_LOG_FILE"),
	}

	var problems []string
	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid API_BASE_URL '%s'", cfg.APIBaseURL))
	}
	if cfg.SpendingLimit.IsNegative() {
		problems = append(problems, "SPENDING_LIMIT must not be negative")
	}
	if cfg.GaugePollInterval <= 0 {
		problems = append(problems, fmt.Sprintf("invalid GAUGE_POLL_INTERVAL %v: must be positive", cfg.GaugePollInterval))
	}
	if cfg.HTTPTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid HTTP_TIMEOUT %v: must be positive", cfg.HTTPTimeout))
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
