package handlers

import (
	"context"
	"time"

	"github.com/futig/genie-client/internal/telegram/keyboard"
	"github.com/futig/genie-client/internal/telegram/render"
	"github.com/futig/genie-client/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Prompter asks questions in one chat. Confirm posts a Yes/No keyboard and
// blocks until the callback handler resolves it, the timeout passes or ctx ends.
type Prompter struct {
	chatID        int64
	messageSender *MessageSender
	confirmations *state.Confirmations
	keyboard      *keyboard.Builder
	timeout       time.Duration
}

// NewPrompter creates the prompter of chatID
func NewPrompter(
	chatID int64,
	messageSender *MessageSender,
	confirmations *state.Confirmations,
	keyboard *keyboard.Builder,
	timeout time.Duration,
) *Prompter {
	return &Prompter{
		chatID:        chatID,
		messageSender: messageSender,
		confirmations: confirmations,
		keyboard:      keyboard,
		timeout:       timeout,
	}
}

// Confirm implements session.Prompter
func (p *Prompter) Confirm(ctx context.Context, question string) bool {
	token, answer := p.confirmations.Open(p.chatID)

	if err := p.messageSender.SendCritical(ctx, p.chatID, question, p.keyboard.ConfirmKeyboard(token)); err != nil {
		p.confirmations.Cancel(token)
		return false
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case yes := <-answer:
		return yes
	case <-timer.C:
		p.confirmations.Cancel(token)
		ctxzap.Info(ctx, "confirmation expired", zap.Int64("chat_id", p.chatID))
		p.messageSender.Send(ctx, p.chatID, render.MsgConfirmExpired, nil)
		return false
	case <-ctx.Done():
		p.confirmations.Cancel(token)
		return false
	}
}

// Alert implements session.Prompter
func (p *Prompter) Alert(ctx context.Context, message string) {
	p.messageSender.Send(ctx, p.chatID, "⚠️ "+message, nil)
}
