package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/telegram/keyboard"
	"github.com/futig/genie-client/internal/telegram/render"
	"github.com/futig/genie-client/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles inline keyboard button presses
type CallbackHandler struct {
	BaseHandler
	confirmations *state.Confirmations
	formatters    FormatterFactory
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(
	messageSender *MessageSender,
	registry *state.Registry,
	confirmations *state.Confirmations,
	formatters FormatterFactory,
) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCallback,
			messageSender: messageSender,
			registry:      registry,
		},
		confirmations: confirmations,
		formatters:    formatters,
	}
}

// Handle implements Handler
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data",
			zap.Error(err),
			zap.String("data", msg.CallbackData),
		)
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.ErrInvalidCallback)
		return nil
	}

	switch data.Action {
	case keyboard.ActionConfirm:
		h.handleConfirm(ctx, msg, data.Value)
	case keyboard.ActionDelete:
		h.handleDelete(ctx, msg, data.Value)
	case keyboard.ActionExport:
		h.handleExport(ctx, msg, data.Value)
	case keyboard.ActionTimeout:
		h.handleTimeout(ctx, msg, data.Value)
	default:
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.ErrInvalidCallback)
	}

	return nil
}

// handleConfirm passes a Yes/No press to the operation waiting for it
func (h *CallbackHandler) handleConfirm(ctx context.Context, msg *Message, value string) {
	token, yes, err := keyboard.ParseConfirmValue(value)
	if err != nil {
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.ErrInvalidCallback)
		return
	}

	if err := h.confirmations.Resolve(msg.ChatID, token, yes); err != nil {
		if errors.Is(err, state.ErrUnknownConfirmation) {
			h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.MsgConfirmExpired)
			h.messageSender.EditText(ctx, msg.ChatID, msg.MessageID, msg.MessageText)
			return
		}
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.ErrGeneric)
		return
	}

	answer := render.AnswerNo
	if yes {
		answer = render.AnswerYes
	}
	h.messageSender.AnswerCallback(ctx, msg.CallbackID, "")
	h.messageSender.EditText(ctx, msg.ChatID, msg.MessageID, fmt.Sprintf(render.MsgConfirmAnswered, msg.MessageText, answer))
}

// handleDelete deletes the document at the pressed position of the current list
func (h *CallbackHandler) handleDelete(ctx context.Context, msg *Message, value string) {
	index, err := strconv.Atoi(value)
	if err != nil {
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.ErrInvalidCallback)
		return
	}

	chat := h.chat(ctx, msg.ChatID)
	docs := chat.Controller.Snapshot().Documents
	if index < 0 || index >= len(docs) {
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.MsgDocumentsChanged)
		return
	}

	h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.CallbackProcessing)

	if chat.Controller.DeleteDocument(ctx, docs[index].Name) == session.OutcomeDone {
		h.deliver(ctx, chat)
	}
}

func (h *CallbackHandler) handleExport(ctx context.Context, msg *Message, value string) {
	h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.CallbackProcessing)

	chat := h.chat(ctx, msg.ChatID)
	if err := h.export(ctx, h.formatters, chat, parseExportFormat(value)); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
	}
}

func (h *CallbackHandler) handleTimeout(ctx context.Context, msg *Message, value string) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		h.messageSender.AnswerCallback(ctx, msg.CallbackID, render.ErrInvalidCallback)
		return
	}

	chat := h.chat(ctx, msg.ChatID)
	applied := chat.Controller.SetResponseTimeout(seconds)

	h.messageSender.AnswerCallback(ctx, msg.CallbackID, session.TimeoutLabel(applied))
	h.messageSender.EditText(ctx, msg.ChatID, msg.MessageID, render.RenderTimeoutSet(applied))
}
