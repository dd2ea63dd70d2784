package handlers

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/futig/genie-client/internal/telegram/render"
	"github.com/futig/genie-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const downloadTimeout = 60 * time.Second

var secureHTTPClient = &http.Client{
	Timeout: downloadTimeout,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// DocumentHandler uploads files sent to the chat into the knowledge base
type DocumentHandler struct {
	BaseHandler
	bot         BotAPI
	client      *http.Client
	maxFileSize int64
	logger      *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	bot BotAPI,
	messageSender *MessageSender,
	registry *state.Registry,
	maxFileSize int64,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindDocument,
			messageSender: messageSender,
			registry:      registry,
		},
		bot:         bot,
		client:      secureHTTPClient,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Handle implements Handler
func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	doc := msg.Document
	if doc == nil {
		return nil
	}

	if !validator.IsSupported(doc.FileName) {
		h.sendMessage(ctx, msg.ChatID, render.MsgUnsupportedFile, nil)
		return nil
	}
	if int64(doc.FileSize) > h.maxFileSize {
		h.sendMessage(ctx, msg.ChatID, render.RenderFileTooLarge(h.maxFileSize), nil)
		return nil
	}

	chat := h.chat(ctx, msg.ChatID)
	if chat.Controller.Snapshot().Busy {
		h.sendMessage(ctx, msg.ChatID, render.MsgBusy, nil)
		return nil
	}

	h.sendMessage(ctx, msg.ChatID, fmt.Sprintf(render.MsgUploading, doc.FileName), nil)

	typing := NewTypingNotifier(h.bot, msg.ChatID, tgbotapi.ChatUploadDocument, h.logger)
	typing.Start(ctx)
	defer typing.Stop()

	data, err := h.download(ctx, doc.FileID)
	if errors.Is(err, errFileTooLarge) {
		h.sendMessage(ctx, msg.ChatID, render.RenderFileTooLarge(h.maxFileSize), nil)
		return nil
	}
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	ctxzap.Debug(ctx, "telegram file downloaded",
		zap.String("file_name", doc.FileName),
		zap.Int("size", len(data)),
	)

	outcome := chat.Controller.Upload(ctx, entity.FileFromBytes(doc.FileName, data))
	typing.Stop()

	h.reportSkipped(ctx, msg.ChatID, outcome)
	h.deliver(ctx, chat)

	return nil
}

// download fetches a file from the Bot API file storage
func (h *DocumentHandler) download(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("%w: get file link: %w", errDownload, err)
	}

	// Ensure HTTPS
	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid file URL: %w", errDownload, err)
	}
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: insecure URL scheme %q", errDownload, parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", errDownload, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", errDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read file data: %w", errDownload, err)
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, errFileTooLarge
	}

	return data, nil
}
