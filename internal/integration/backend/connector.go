package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/integration/common"
	pkghttp "github.com/futig/genie-client/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the Genie backend HTTP API
type Connector struct {
	config    config.BackendConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.BackendConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Init fetches the initial document list and thread identifier
// GET {init_endpoint}
func (c *Connector) Init(ctx context.Context) (*entity.InitResponse, error) {
	ctxzap.Debug(ctx, "initializing backend session")

	var resp entity.InitResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.InitEndpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	if resp.Documents == nil {
		resp.Documents = []string{}
	}

	ctxzap.Info(ctx, "backend session initialized",
		zap.Int("document_count", len(resp.Documents)),
		zap.String("thread_id", resp.ThreadID),
	)
	return &resp, nil
}

// Chat sends one user message and returns the assistant answer
// POST {chat_endpoint} {"message": ...}
func (c *Connector) Chat(ctx context.Context, message string) (*entity.ChatResponse, error) {
	ctxzap.Debug(ctx, "sending chat message", zap.Int("length", len(message)))

	var resp entity.ChatResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, &entity.ChatRequest{Message: message}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	return &resp, nil
}

// ClearChat drops the backend conversation history
// POST {clear_endpoint}; any 2xx is success
func (c *Connector) ClearChat(ctx context.Context) error {
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ClearEndpoint, nil, nil); err != nil {
		return fmt.Errorf("clear chat: %w", err)
	}

	ctxzap.Info(ctx, "backend chat history cleared")
	return nil
}

// Upload sends a document as multipart field "file"
// POST {upload_endpoint}
func (c *Connector) Upload(ctx context.Context, file entity.UploadFile) (*entity.OperationResult, error) {
	if file.Name == "" || file.Open == nil {
		return nil, entity.ErrNoFile
	}

	ctxzap.Info(ctx, "uploading document", zap.String("file_name", file.Name))

	prepareBody := func(writer *multipart.Writer) error {
		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", file.Name, err)
		}
		defer src.Close()

		part, err := writer.CreateFormFile("file", file.Name)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := io.Copy(part, src); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.OperationResult
	if err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, &resp); err != nil {
		ctxzap.Error(ctx, "failed to upload document", zap.Error(err))
		return nil, fmt.Errorf("upload: %w", err)
	}

	ctxzap.Info(ctx, "document upload answered",
		zap.Bool("success", resp.Success),
		zap.String("message", resp.Message),
	)
	return &resp, nil
}

// ListDocuments returns the authoritative document list
// GET {documents_endpoint}
func (c *Connector) ListDocuments(ctx context.Context) ([]string, error) {
	var resp entity.DocumentsResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.DocumentsEndpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if resp.Documents == nil {
		return []string{}, nil
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("document_count", len(resp.Documents)))
	return resp.Documents, nil
}

// DeleteDocument removes a document by name
// POST {delete_endpoint} {"document": ...}
func (c *Connector) DeleteDocument(ctx context.Context, name string) (*entity.OperationResult, error) {
	ctxzap.Info(ctx, "deleting document", zap.String("document", name))

	var resp entity.OperationResult
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.DeleteEndpoint, &entity.DeleteDocumentRequest{Document: name}, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to delete document", zap.Error(err))
		return nil, fmt.Errorf("delete document: %w", err)
	}

	return &resp, nil
}

// Reset asks the backend to rebuild its index from the stored documents
// POST {reset_endpoint}
func (c *Connector) Reset(ctx context.Context) (*entity.OperationResult, error) {
	var resp entity.OperationResult
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ResetEndpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}

	ctxzap.Info(ctx, "backend reset answered", zap.Bool("success", resp.Success))
	return &resp, nil
}
