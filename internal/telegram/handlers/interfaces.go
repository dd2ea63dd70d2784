package handlers

import (
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/formatter"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handlers
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// FormatterFactory builds transcript exporters
type FormatterFactory interface {
	Create(format entity.ExportFormat) (formatter.Formatter, error)
}
