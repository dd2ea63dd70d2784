package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/telegram/handlers"
	"github.com/futig/genie-client/internal/telegram/middleware"
	"github.com/futig/genie-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// UpdatesAPI is the part of *tgbotapi.BotAPI the bot loop needs
type UpdatesAPI interface {
	handlers.BotAPI
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api           UpdatesAPI
	cfg           *config.TelegramConfig
	handlers      map[string]handlers.Handler
	messageSender *handlers.MessageSender
	logger        *zap.Logger
	loggingMW     *middleware.LoggingMiddleware
	recoveryMW    *middleware.RecoveryMiddleware
	rateLimitMW   *middleware.RateLimiterMiddleware
	updatesChan   tgbotapi.UpdatesChannel
	stopChan      chan struct{}
	wg            sync.WaitGroup

	// ctx is cancelled on Stop so handlers waiting for a button press return
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	api UpdatesAPI,
	messageSender *handlers.MessageSender,
	logger *zap.Logger,
) *Bot {
	bot := &Bot{
		api:           api,
		cfg:           cfg,
		messageSender: messageSender,
		logger:        logger,
		handlers:      make(map[string]handlers.Handler),
		stopChan:      make(chan struct{}),
	}

	// Initialize middleware
	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	// Configure updates
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	// Get updates channel
	b.updatesChan = b.api.GetUpdatesChan(u)

	// Add logger to context for processUpdates
	b.ctx, b.cancel = context.WithCancel(ctxzap.ToContext(ctx, b.logger))

	// Start update processing loop
	go b.processUpdates(b.ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	// Signal to stop receiving new updates
	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Stop()
	if b.cancel != nil {
		b.cancel()
	}

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	// Wait with timeout
	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			// Each update runs on its own goroutine: a delete waiting for
			// its confirmation must not block the button press that answers it
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	// Rate limiter middleware (first to check)
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		// Logging middleware
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			// Recovery middleware
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				// Actual handler
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Handle callback queries
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	// Handle messages
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
		return
	}
}

// handleMessage routes a message by its kind
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Document:  message.Document,
	}

	var kind string
	switch {
	case message.IsCommand():
		kind = handlers.HandlerKindCommand
		msg.Command = message.Command()
		msg.Arguments = message.CommandArguments()
	case message.Document != nil:
		kind = handlers.HandlerKindDocument
	case message.Text != "":
		kind = handlers.HandlerKindText
	default:
		b.sendError(ctx, message.Chat.ID, render.MsgUnsupportedInput)
		return
	}

	b.dispatch(ctx, kind, msg)
}

// handleCallbackQuery handles callback button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.messageSender.AnswerCallback(ctx, query.ID, render.ErrInvalidCallback)
		return
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("data", query.Data),
		zap.Int64("user_id", query.From.ID),
	)

	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
		MessageText:  query.Message.Text,
	}

	b.dispatch(ctx, handlers.HandlerKindCallback, msg)
}

func (b *Bot) dispatch(ctx context.Context, kind string, msg *handlers.Message) {
	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for message kind",
			zap.String("kind", kind),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendError(ctx, msg.ChatID, render.ErrGeneric)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendError(ctx, msg.ChatID, render.ErrGeneric)
	}
}

// sendError sends an error message
func (b *Bot) sendError(ctx context.Context, chatID int64, text string) {
	b.messageSender.Send(ctx, chatID, text, nil)
}

// RegisterHandler registers a handler for a message kind
func (b *Bot) RegisterHandler(handler handlers.Handler) error {
	kind := handler.GetKind()

	if !handlers.IsValidKind(kind) {
		return fmt.Errorf("invalid handler kind %q", kind)
	}

	b.handlers[kind] = handler
	b.logger.Info("handler registered",
		zap.String("kind", kind),
	)
	return nil
}
