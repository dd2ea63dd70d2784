package keyboard

import (
	"strconv"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxDocumentButtons caps the delete keyboard; Telegram rejects very large markups
const MaxDocumentButtons = 50

// TimeoutPresets are offered by the /timeout keyboard, in seconds
var TimeoutPresets = []int{0, 15, 30, 60, 120}

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// ConfirmKeyboard creates Yes/No buttons answering the question behind token
func (b *Builder) ConfirmKeyboard(token string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", EncodeCallback(ActionConfirm, token+":"+AnswerYes)),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", EncodeCallback(ActionConfirm, token+":"+AnswerNo)),
		),
	)
}

// DocumentsKeyboard creates one delete button per document. Buttons carry the
// list position, which is resolved against the current list when pressed.
func (b *Builder) DocumentsKeyboard(docs []entity.DocumentRef) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	count := len(docs)
	if count > MaxDocumentButtons {
		count = MaxDocumentButtons
	}

	for i := 0; i < count; i++ {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"🗑 "+docs[i].Name,
				EncodeCallback(ActionDelete, strconv.Itoa(i)),
			),
		))
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ExportKeyboard creates download format buttons
func (b *Builder) ExportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Markdown", EncodeCallback(ActionExport, string(entity.FormatMarkdown))),
			tgbotapi.NewInlineKeyboardButtonData("📕 PDF", EncodeCallback(ActionExport, string(entity.FormatPDF))),
			tgbotapi.NewInlineKeyboardButtonData("📘 Word", EncodeCallback(ActionExport, string(entity.FormatDOCX))),
		),
	)
}

// TimeoutKeyboard creates preset buttons, marking the current value
func (b *Builder) TimeoutKeyboard(current int) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(TimeoutPresets))
	for _, seconds := range TimeoutPresets {
		label := session.TimeoutLabel(seconds)
		if seconds == current {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionTimeout, strconv.Itoa(seconds))))
	}

	return tgbotapi.NewInlineKeyboardMarkup(row)
}
