package handlers

import (
	"context"

	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/telegram/render"
	"github.com/futig/genie-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handler kind constants
const (
	HandlerKindCallback = "CALLBACK"
	HandlerKindCommand  = "COMMAND"
	HandlerKindText     = "TEXT"
	HandlerKindDocument = "DOCUMENT"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Arguments    string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
	// MessageText is the text of the message a pressed button belongs to
	MessageText string
}

// Handler defines the interface for kind-specific handlers
type Handler interface {
	// Handle processes a message of this kind
	Handle(ctx context.Context, msg *Message) error

	// GetKind returns the message kind this handler manages
	GetKind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          string
	messageSender *MessageSender
	registry      *state.Registry
}

// GetKind implements Handler
func (h *BaseHandler) GetKind() string {
	return h.kind
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(ctx context.Context, chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(ctx, chatID, text, markup)
	}
}

// chat returns the session of chatID, loading a new one from the backend
func (h *BaseHandler) chat(ctx context.Context, chatID int64) *state.Chat {
	chat, created := h.registry.GetOrCreate(chatID)
	if created {
		chat.Controller.Initialize(ctx)
		chat.MarkDelivered()
		ctxzap.Info(ctx, "chat session created", zap.Int64("chat_id", chatID))
	}
	return chat
}

// deliver sends every assistant turn the chat has not seen yet
func (h *BaseHandler) deliver(ctx context.Context, chat *state.Chat) {
	for _, turn := range chat.Pending() {
		for _, text := range render.RenderReply(turn.Content) {
			if err := h.messageSender.SendHTML(ctx, chat.ID, text); err != nil {
				ctxzap.Error(ctx, "failed to deliver reply",
					zap.Error(err),
					zap.Int64("chat_id", chat.ID),
				)
			}
		}
	}
}

// reportSkipped tells the user why an operation did not run
func (h *BaseHandler) reportSkipped(ctx context.Context, chatID int64, outcome session.Outcome) {
	if outcome == session.OutcomeSkipped {
		h.sendMessage(ctx, chatID, render.MsgBusy, nil)
	}
}

// validKinds defines all valid handler kinds
var validKinds = map[string]bool{
	HandlerKindCallback: true,
	HandlerKindCommand:  true,
	HandlerKindText:     true,
	HandlerKindDocument: true,
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	_, ok := validKinds[kind]
	return ok
}
