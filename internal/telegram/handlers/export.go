package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/telegram/state"
)

const exportTimeLayout = "20060102-150405"

// export sends the chat transcript as a file in format
func (h *BaseHandler) export(ctx context.Context, formatters FormatterFactory, chat *state.Chat, format entity.ExportFormat) error {
	f, err := formatters.Create(format)
	if err != nil {
		return err
	}

	data, err := f.Format(chat.Controller.Snapshot().History)
	if err != nil {
		return fmt.Errorf("format transcript: %w", err)
	}

	return h.messageSender.SendDocument(ctx, chat.ID, exportFileName(time.Now(), f.FileExtension()), data)
}

func exportFileName(now time.Time, extension string) string {
	return "genie-conversation-" + now.Format(exportTimeLayout) + extension
}

// parseExportFormat accepts "pdf", ".PDF" and the like
func parseExportFormat(arg string) entity.ExportFormat {
	return entity.ExportFormat(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(arg), ".")))
}
