package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/genie-client/internal/api"
	chatapi "github.com/futig/genie-client/internal/api/chat"
	documentapi "github.com/futig/genie-client/internal/api/document"
	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/integration/backend"
	"github.com/futig/genie-client/internal/pkg/logger"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/futig/genie-client/internal/repository"
	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/telegram"
	"github.com/futig/genie-client/internal/tui"
	"github.com/futig/genie-client/internal/usecase/assistant"
	"go.uber.org/zap"
)

// Client holds what the terminal front-ends share: configuration, logger
// and the Genie backend connector
type Client struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend session.Backend
}

// BuildClient loads configuration and wires the backend connector.
// withConsole tees logs to stdout; the terminal UI passes false.
func BuildClient(environment string, withConsole bool) (*Client, error) {
	cfg, log, err := setup(environment, withConsole)
	if err != nil {
		return nil, err
	}

	log.Info("Building client",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendCfg.Url),
	)

	return &Client{
		Config:  cfg,
		Logger:  log,
		Backend: setupBackend(cfg, log),
	}, nil
}

// NewSession creates a controller that asks its questions through prompter
func (c *Client) NewSession(prompter session.Prompter) *session.Controller {
	return session.NewController(c.Backend, prompter, c.SessionOptions(), c.Logger)
}

func (c *Client) SessionOptions() session.Options {
	return session.Options{ResponseTimeout: c.Config.UICfg.ResponseTimeout}
}

func (c *Client) TUIOptions() tui.Options {
	return tui.Options{
		ExportDir:    c.Config.UICfg.ExportDir,
		ExportFormat: entity.ExportFormat(c.Config.UICfg.ExportFormat),
		UploadDir:    c.Config.UICfg.UploadDir,
	}
}

// Build creates the development stub backend
func Build(environment string) (*App, error) {
	cfg, log, err := setup(environment, true)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateStub(); err != nil {
		return nil, err
	}

	log.Info("Building stub backend",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.StubCfg.Addr),
	)

	// Initialize repositories
	documentRepo, err := repository.NewDocumentDisk(cfg.StubCfg.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("setup document store: %w", err)
	}
	historyRepo := repository.NewHistoryCache(cfg.StubCfg.HistoryTTL)
	log.Info("Repositories initialized", zap.String("docs_dir", cfg.StubCfg.DocsDir))

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.StubCfg.MaxUploadSize)

	// Initialize use cases
	assistantUC := assistant.NewUsecase(documentRepo, historyRepo, log)
	log.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(assistantUC)
	documentHandler := documentapi.NewHandler(assistantUC, cfg.StubCfg, fileValidator)

	// Setup router
	router := api.SetupRouter(chatHandler, documentHandler, cfg.StubCfg.SwaggerFile, log)
	log.Info("HTTP router configured")

	server := &http.Server{
		Addr:        cfg.StubCfg.Addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	log.Info("Application built successfully", zap.String("environment", cfg.Environment))

	return &App{
		server: server,
		logger: log,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot(environment string) (telegram.Bot, *zap.Logger, error) {
	cfg, log, err := setup(environment, true)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, err
	}

	log.Info("Building Telegram bot", zap.String("environment", cfg.Environment))

	opts := session.Options{ResponseTimeout: cfg.UICfg.ResponseTimeout}
	bot, err := telegram.NewBot(&cfg.TelegramCfg, setupBackend(cfg, log), opts, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully", zap.String("environment", cfg.Environment))

	return bot, log, nil
}

func setup(environment string, withConsole bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogCfg, withConsole)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	return cfg, log, nil
}

func setupBackend(cfg *config.Config, log *zap.Logger) session.Backend {
	if cfg.EnableMocks {
		log.Info("Using mock backend connector")
		return backend.NewMockConnector(log)
	}

	log.Info("Using Genie backend connector", zap.String("url", cfg.BackendCfg.Url))
	return backend.NewConnector(cfg.BackendCfg, log)
}
