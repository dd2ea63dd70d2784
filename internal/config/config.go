package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/genie-client/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Genie backend the clients talk to
	BackendCfg BackendConfig `envPrefix:"BACKEND_"`

	// Logging configuration
	LogCfg LogConfig `envPrefix:"LOG_"`

	// Interactive client defaults
	UICfg UIConfig `envPrefix:"UI_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only validated by the bot binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Development stub backend (only validated by the stub binary)
	StubCfg StubConfig `envPrefix:"STUB_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type BackendConfig struct {
	HTTPClientConfig
	InitEndpoint      string `env:"INIT_ENDPOINT" envDefault:"/api/init"`
	ChatEndpoint      string `env:"CHAT_ENDPOINT" envDefault:"/api/chat"`
	ClearEndpoint     string `env:"CLEAR_ENDPOINT" envDefault:"/api/chat/clear"`
	UploadEndpoint    string `env:"UPLOAD_ENDPOINT" envDefault:"/api/upload"`
	DocumentsEndpoint string `env:"DOCUMENTS_ENDPOINT" envDefault:"/api/documents"`
	DeleteEndpoint    string `env:"DELETE_ENDPOINT" envDefault:"/api/documents/delete"`
	ResetEndpoint     string `env:"RESET_ENDPOINT" envDefault:"/api/reset"`
}

// HTTPClientConfig tunes the outbound HTTP client. Zero timeouts mean "no limit":
// the response timeout chosen in the UI is advisory and enforced by the backend.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	InsecureSkipVerify    bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	UserAgent             string        `env:"USER_AGENT" envDefault:"genie-client/1.0"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:8080"`
}

type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	File       string `env:"FILE" envDefault:"genie.log"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"14"`
}

type UIConfig struct {
	// Initial response timeout in seconds, 0 = no limit
	ResponseTimeout int    `env:"RESPONSE_TIMEOUT" envDefault:"30"`
	ExportDir       string `env:"EXPORT_DIR" envDefault:"."`
	ExportFormat    string `env:"EXPORT_FORMAT" envDefault:"md"`
	// Directory the upload picker opens in, empty = working directory
	UploadDir string `env:"UPLOAD_DIR"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	ConfirmTimeout     time.Duration `env:"CONFIRM_TIMEOUT" envDefault:"2m"`
	MaxFileSize        int64         `env:"MAX_FILE_SIZE" envDefault:"20971520"` // Bot API download cap

	// Retries for prompts that must reach the user
	SendRetry retry.RetryConfig `envPrefix:"SEND_RETRY_"`
}

// StubConfig configures the development backend
type StubConfig struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	DocsDir       string        `env:"DOCS_DIR" envDefault:"docs-store"`
	SwaggerFile   string        `env:"SWAGGER_FILE" envDefault:"docs/swagger.yaml"`
	MaxUploadSize int64         `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`
	HistoryTTL    time.Duration `env:"HISTORY_TTL" envDefault:"1h"`
}

// LoadConfig reads .env.<environment> when present and parses the process environment.
func LoadConfig(environment string) (*Config, error) {
	if environment == "" {
		environment = "local"
	}

	envFile := getEnvFile(environment)
	// The env file is optional; variables may be set externally.
	_ = godotenv.Load(envFile)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.BackendCfg.Url == "" {
		errors = append(errors, "BACKEND_SERVICE_URL must not be empty")
	}

	if cfg.UICfg.ResponseTimeout < 0 || cfg.UICfg.ResponseTimeout > 120 {
		errors = append(errors, fmt.Sprintf("UI_RESPONSE_TIMEOUT must be between 0 and 120, got %d", cfg.UICfg.ResponseTimeout))
	}

	switch cfg.UICfg.ExportFormat {
	case "md", "pdf", "docx":
	default:
		errors = append(errors, fmt.Sprintf("UI_EXPORT_FORMAT must be one of md, pdf, docx, got %q", cfg.UICfg.ExportFormat))
	}

	switch strings.ToLower(cfg.LogCfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogCfg.Level))
	}

	return joinErrors(errors)
}

// ValidateTelegram checks the settings only the bot binary needs.
func (c *Config) ValidateTelegram() error {
	var errors []string
	t := c.TelegramCfg

	if t.BotToken == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN must not be empty")
	}

	if t.RateLimitPerMinute < 1 || t.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", t.RateLimitPerMinute))
	}

	if t.RateLimitBurst < 1 || t.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", t.RateLimitBurst))
	}

	if t.ShutdownTimeout < 1 || t.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", t.ShutdownTimeout))
	}

	return joinErrors(errors)
}

// ValidateStub checks the settings only the stub backend needs.
func (c *Config) ValidateStub() error {
	var errors []string
	s := c.StubCfg

	if s.Addr == "" {
		errors = append(errors, "STUB_ADDR must not be empty")
	}
	if s.DocsDir == "" {
		errors = append(errors, "STUB_DOCS_DIR must not be empty")
	}
	if s.MaxUploadSize <= 0 {
		errors = append(errors, fmt.Sprintf("STUB_MAX_UPLOAD_SIZE must be positive, got %d", s.MaxUploadSize))
	}

	return joinErrors(errors)
}

func joinErrors(errors []string) error {
	if len(errors) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
