package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// typingInterval keeps the indicator alive; Telegram drops it after 5 seconds
const typingInterval = 4 * time.Second

// TypingNotifier sends periodic "typing" actions to show bot activity
type TypingNotifier struct {
	bot     BotAPI
	chatID  int64
	action  string
	ticker  *time.Ticker
	done    chan struct{}
	logger  *zap.Logger
	started bool
}

// NewTypingNotifier creates a new activity indicator. action is one of the
// tgbotapi.Chat* constants, e.g. ChatTyping or ChatUploadDocument.
func NewTypingNotifier(bot BotAPI, chatID int64, action string, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		bot:    bot,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start begins sending the indicator every typingInterval
func (t *TypingNotifier) Start(ctx context.Context) {
	if t.started {
		return
	}

	t.started = true
	t.ticker = time.NewTicker(typingInterval)

	t.send("failed to send initial chat action")

	go func() {
		for {
			select {
			case <-t.ticker.C:
				t.send("failed to send chat action")
			case <-t.done:
				t.ticker.Stop()
				return
			case <-ctx.Done():
				t.ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops sending the indicator
func (t *TypingNotifier) Stop() {
	if !t.started {
		return
	}

	close(t.done)
	t.started = false
}

func (t *TypingNotifier) send(failure string) {
	if _, err := t.bot.Request(tgbotapi.NewChatAction(t.chatID, t.action)); err != nil {
		t.logger.Warn(failure,
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
