package telegram

import (
	"context"
	"fmt"

	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/pkg/formatter"
	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/telegram/bot"
	"github.com/futig/genie-client/internal/telegram/handlers"
	"github.com/futig/genie-client/internal/telegram/keyboard"
	"github.com/futig/genie-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes with the Bot API and wires one session per chat onto backend
func NewBot(
	cfg *config.TelegramConfig,
	backend session.Backend,
	opts session.Options,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return newBot(cfg, api, backend, opts, logger)
}

func newBot(
	cfg *config.TelegramConfig,
	api bot.UpdatesAPI,
	backend session.Backend,
	opts session.Options,
	logger *zap.Logger,
) (*bot.Bot, error) {
	messageSender := handlers.NewMessageSender(api, &cfg.SendRetry)
	confirmations := state.NewConfirmations(cfg.ConfirmTimeout)
	kb := keyboard.NewBuilder()
	formatters := formatter.NewFactory()

	registry := state.NewRegistry(cfg.SessionTTL, func(chatID int64) (*session.Controller, session.Prompter) {
		prompter := handlers.NewPrompter(chatID, messageSender, confirmations, kb, cfg.ConfirmTimeout)
		controller := session.NewController(backend, prompter, opts, logger.With(zap.Int64("chat_id", chatID)))
		return controller, prompter
	})

	b := bot.New(cfg, api, messageSender, logger)

	if err := registerHandlers(b, api, messageSender, registry, confirmations, kb, formatters, cfg, logger); err != nil {
		return nil, err
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(
	b *bot.Bot,
	api handlers.BotAPI,
	messageSender *handlers.MessageSender,
	registry *state.Registry,
	confirmations *state.Confirmations,
	kb *keyboard.Builder,
	formatters handlers.FormatterFactory,
	cfg *config.TelegramConfig,
	logger *zap.Logger,
) error {
	all := []handlers.Handler{
		handlers.NewCallbackHandler(messageSender, registry, confirmations, formatters),
		handlers.NewCommandHandler(api, messageSender, registry, kb, formatters, logger),
		handlers.NewTextHandler(api, messageSender, registry, logger),
		handlers.NewDocumentHandler(api, messageSender, registry, cfg.MaxFileSize, logger),
	}

	for _, h := range all {
		if err := b.RegisterHandler(h); err != nil {
			return fmt.Errorf("register handler: %w", err)
		}
	}

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", len(all)),
	)
	return nil
}
