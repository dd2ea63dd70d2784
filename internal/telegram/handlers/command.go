package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/telegram/keyboard"
	"github.com/futig/genie-client/internal/telegram/render"
	"github.com/futig/genie-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Commands
const (
	CommandStart   = "start"
	CommandHelp    = "help"
	CommandClear   = "clear"
	CommandDocs    = "docs"
	CommandTimeout = "timeout"
	CommandExport  = "export"
	CommandReset   = "reset"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	BaseHandler
	bot        BotAPI
	keyboard   *keyboard.Builder
	formatters FormatterFactory
	logger     *zap.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(
	bot BotAPI,
	messageSender *MessageSender,
	registry *state.Registry,
	keyboard *keyboard.Builder,
	formatters FormatterFactory,
	logger *zap.Logger,
) *CommandHandler {
	return &CommandHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCommand,
			messageSender: messageSender,
			registry:      registry,
		},
		bot:        bot,
		keyboard:   keyboard,
		formatters: formatters,
		logger:     logger,
	}
}

// Handle implements Handler
func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case CommandStart:
		h.handleStart(ctx, msg)
	case CommandHelp:
		h.sendMessage(ctx, msg.ChatID, render.MsgHelp, nil)
	case CommandClear:
		h.handleClear(ctx, msg)
	case CommandDocs:
		h.handleDocs(ctx, msg)
	case CommandTimeout:
		h.handleTimeout(ctx, msg)
	case CommandExport:
		h.handleExport(ctx, msg)
	case CommandReset:
		h.handleReset(ctx, msg)
	default:
		h.sendMessage(ctx, msg.ChatID, render.ErrUnknownCommand, nil)
	}

	return nil
}

// handleStart loads the session from the backend and greets the user
func (h *CommandHandler) handleStart(ctx context.Context, msg *Message) {
	chat, created := h.registry.GetOrCreate(msg.ChatID)

	outcome := chat.Controller.Initialize(ctx)
	if created {
		chat.MarkDelivered()
	}

	snap := chat.Controller.Snapshot()
	h.sendMessage(ctx, msg.ChatID, render.RenderWelcome(len(snap.Documents), snap.ResponseTimeout), nil)

	if outcome == session.OutcomeFailed {
		h.sendMessage(ctx, msg.ChatID, render.ErrNetworkIssue, nil)
	}
}

func (h *CommandHandler) handleClear(ctx context.Context, msg *Message) {
	chat := h.chat(ctx, msg.ChatID)

	switch chat.Controller.ClearConversation(ctx) {
	case session.OutcomeDone:
		// a reply that raced the clear is still owed to the user
		h.deliver(ctx, chat)
		h.sendMessage(ctx, msg.ChatID, render.MsgHistoryCleared, nil)
	case session.OutcomeFailed:
		h.sendMessage(ctx, msg.ChatID, render.ErrClearFailed, nil)
	}
}

// handleDocs lists the documents with one delete button each
func (h *CommandHandler) handleDocs(ctx context.Context, msg *Message) {
	chat := h.chat(ctx, msg.ChatID)

	if chat.Controller.RefreshDocuments(ctx) == session.OutcomeFailed {
		h.sendMessage(ctx, msg.ChatID, render.ErrListFailed, nil)
		return
	}

	docs := chat.Controller.Snapshot().Documents
	if len(docs) == 0 {
		h.sendMessage(ctx, msg.ChatID, render.MsgNoDocuments, nil)
		return
	}

	shown := min(len(docs), keyboard.MaxDocumentButtons)
	h.sendMessage(ctx, msg.ChatID, render.RenderDocuments(docs, shown), h.keyboard.DocumentsKeyboard(docs))
}

// handleTimeout shows the timeout presets or applies "/timeout <seconds>"
func (h *CommandHandler) handleTimeout(ctx context.Context, msg *Message) {
	chat := h.chat(ctx, msg.ChatID)

	arg := strings.TrimSpace(msg.Arguments)
	if arg == "" {
		current := chat.Controller.Snapshot().ResponseTimeout
		h.sendMessage(ctx, msg.ChatID, render.RenderTimeout(current), h.keyboard.TimeoutKeyboard(current))
		return
	}

	seconds, err := strconv.Atoi(strings.TrimSuffix(arg, "s"))
	if err != nil {
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidTimeout, nil)
		return
	}

	applied := chat.Controller.SetResponseTimeout(seconds)
	h.sendMessage(ctx, msg.ChatID, render.RenderTimeoutSet(applied), nil)
}

// handleExport offers the formats or sends the transcript in the requested one
func (h *CommandHandler) handleExport(ctx context.Context, msg *Message) {
	chat := h.chat(ctx, msg.ChatID)

	if strings.TrimSpace(msg.Arguments) == "" {
		h.sendMessage(ctx, msg.ChatID, render.MsgExportChoose, h.keyboard.ExportKeyboard())
		return
	}

	if err := h.export(ctx, h.formatters, chat, parseExportFormat(msg.Arguments)); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
	}
}

// handleReset rebuilds the backend index after the user confirms
func (h *CommandHandler) handleReset(ctx context.Context, msg *Message) {
	chat := h.chat(ctx, msg.ChatID)

	if !chat.Prompter.Confirm(ctx, render.MsgResetConfirm) {
		return
	}

	typing := NewTypingNotifier(h.bot, msg.ChatID, tgbotapi.ChatTyping, h.logger)
	typing.Start(ctx)
	outcome := chat.Controller.ResetBackend(ctx)
	typing.Stop()

	if outcome == session.OutcomeDone {
		h.sendMessage(ctx, msg.ChatID, render.MsgResetDone, nil)
	}
}
