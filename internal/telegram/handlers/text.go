package handlers

import (
	"context"
	"strings"

	"github.com/futig/genie-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TextHandler sends plain messages to the assistant
type TextHandler struct {
	BaseHandler
	bot    BotAPI
	logger *zap.Logger
}

// NewTextHandler creates a new text handler
func NewTextHandler(bot BotAPI, messageSender *MessageSender, registry *state.Registry, logger *zap.Logger) *TextHandler {
	return &TextHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindText,
			messageSender: messageSender,
			registry:      registry,
		},
		bot:    bot,
		logger: logger,
	}
}

// Handle implements Handler
func (h *TextHandler) Handle(ctx context.Context, msg *Message) error {
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	chat := h.chat(ctx, msg.ChatID)

	typing := NewTypingNotifier(h.bot, msg.ChatID, tgbotapi.ChatTyping, h.logger)
	typing.Start(ctx)
	outcome := chat.Controller.Submit(ctx, msg.Text)
	typing.Stop()

	h.reportSkipped(ctx, msg.ChatID, outcome)
	h.deliver(ctx, chat)

	return nil
}
