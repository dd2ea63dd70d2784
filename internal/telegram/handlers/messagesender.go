package handlers

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	pkgretry "github.com/futig/genie-client/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	bot       BotAPI
	retryOpts []retry.Option
}

// NewMessageSender creates a new MessageSender. retryCfg applies to SendCritical only.
func NewMessageSender(bot BotAPI, retryCfg *pkgretry.RetryConfig) *MessageSender {
	if retryCfg == nil {
		retryCfg = pkgretry.DefaultRetryConfig()
	}

	return &MessageSender{
		bot:       bot,
		retryOpts: retryCfg.ToRetryOptions(),
	}
}

// Send sends a plain text message to the specified chat
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := s.bot.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}

// SendHTML sends a message rendered as Telegram HTML
func (s *MessageSender) SendHTML(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("send html message: %w", err)
	}

	return nil
}

// SendCritical sends a message that must be delivered (e.g., confirmations),
// retrying transient failures
func (s *MessageSender) SendCritical(ctx context.Context, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	opts := append([]retry.Option{
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "failed to send message, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
				zap.Int64("chat_id", chatID),
			)
		}),
	}, s.retryOpts...)

	err := retry.Do(func() error {
		_, err := s.bot.Send(msg)
		return err
	}, opts...)
	if err != nil {
		ctxzap.Error(ctx, "failed to send message after all retries",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}

// SendDocument sends a file
func (s *MessageSender) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	}

	msg := tgbotapi.NewDocument(chatID, doc)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("send document: %w", err)
	}

	return nil
}

// EditText replaces the text of a sent message and drops its keyboard
func (s *MessageSender) EditText(ctx context.Context, chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := s.bot.Send(edit); err != nil {
		ctxzap.Warn(ctx, "failed to edit message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
		)
	}
}

// AnswerCallback answers a callback query
func (s *MessageSender) AnswerCallback(ctx context.Context, callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := s.bot.Request(callback); err != nil {
		ctxzap.Error(ctx, "failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
