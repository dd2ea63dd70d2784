package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/integration/backend"
	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu      sync.Mutex
	texts   []string
	updates chan tgbotapi.Update
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return "", nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func testConfig() *config.TelegramConfig {
	return &config.TelegramConfig{
		UpdateTimeout:      1,
		RateLimitPerMinute: 60,
		RateLimitBurst:     10,
		ShutdownTimeout:    5,
		SessionTTL:         time.Minute,
		ConfirmTimeout:     time.Second,
		MaxFileSize:        1 << 20,
	}
}

func message(text string, entities ...tgbotapi.MessageEntity) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: 5},
			Chat:      &tgbotapi.Chat{ID: 5},
			Text:      text,
			Entities:  entities,
		},
	}
}

func TestBotRoutesUpdates(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 4)}
	b, err := newBot(testConfig(), api, backend.NewMockConnector(zap.NewNop(), "a.pdf"), session.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, b.Start(context.Background()))

	api.updates <- message("/help", tgbotapi.MessageEntity{Type: "bot_command", Offset: 0, Length: 5})
	require.Eventually(t, func() bool {
		return len(api.sent()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, render.MsgHelp, api.sent()[0])

	api.updates <- message("what is inside?")
	require.Eventually(t, func() bool {
		return len(api.sent()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, strings.Contains(api.sent()[1], "Searched 1 document(s)"))

	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 5}, Chat: &tgbotapi.Chat{ID: 5}}}
	require.Eventually(t, func() bool {
		return len(api.sent()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, render.MsgUnsupportedInput, api.sent()[2])

	require.NoError(t, b.Stop())
}
